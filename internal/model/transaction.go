package model

import "time"

// Transaction types. A transaction is either money coming in or going out;
// the amount itself is always positive.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction represents a single financial movement in the `transactions`
// table. Amount is a decimal string with exactly two fraction digits; it is
// never handled as a float to avoid representation drift.
//
// Fields:
//
//	ID          – primary key identifier (UUID).
//	UserID      – owner of the transaction.
//	Amount      – positive decimal amount, e.g. "42.50".
//	Description – free-form label.
//	CategoryID  – reference into the categories table.
//	Date        – when the transaction occurred (UTC).
//	Type        – "income" or "expense".
type Transaction struct {
	ID          string    `json:"id"`          // transactions.id
	UserID      string    `json:"userId"`      // transactions.user_id
	Amount      string    `json:"amount"`      // transactions.amount decimal(10,2)
	Description string    `json:"description"` // transactions.description
	CategoryID  string    `json:"categoryId"`  // transactions.category_id
	Date        time.Time `json:"date"`        // transactions.date
	Type        string    `json:"type"`        // transactions.type
}
