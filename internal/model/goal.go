package model

import "time"

// Goal represents a savings goal in the `goals` table. CurrentAmount starts
// at "0.00" and is updated as the user allocates money toward the target.
type Goal struct {
	ID            string     `json:"id"`                 // goals.id
	UserID        string     `json:"userId"`             // goals.user_id
	Name          string     `json:"name"`               // goals.name
	TargetAmount  string     `json:"targetAmount"`       // goals.target_amount decimal(10,2)
	CurrentAmount string     `json:"currentAmount"`      // goals.current_amount decimal(10,2)
	Deadline      *time.Time `json:"deadline,omitempty"` // goals.deadline (nullable)
	CreatedAt     time.Time  `json:"createdAt"`          // goals.created_at
}
