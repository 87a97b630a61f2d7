package model

// Budget represents a spending limit for a category over a period, stored
// in the `budgets` table. Month is nil for yearly budgets.
type Budget struct {
	ID         string `json:"id"`              // budgets.id
	UserID     string `json:"userId"`          // budgets.user_id
	CategoryID string `json:"categoryId"`      // budgets.category_id
	Amount     string `json:"amount"`          // budgets.amount decimal(10,2)
	Period     string `json:"period"`          // budgets.period: "monthly" or "yearly"
	Month      *int   `json:"month,omitempty"` // budgets.month 1-12 (nullable)
	Year       int    `json:"year"`            // budgets.year
}
