package repository

import "fmt"

// Cache key layout. Per-user financial lists and rollups are keyed by user;
// the category list is global and shares a single key.
func transactionsKey(userID string) string { return "transactions:" + userID }
func budgetsKey(userID string) string      { return "budgets:" + userID }
func goalsKey(userID string) string        { return "goals:" + userID }
func spendingKey(userID string) string     { return "spending-summary:" + userID }

const categoriesKey = "categories"

// Trend rollups vary by interval and limit, so mutations clear them by
// prefix rather than enumerating every combination a client requested.
func trendsPrefix(userID string) string { return "trends:" + userID + ":" }

func trendsKey(userID, interval string, limit int) string {
	return fmt.Sprintf("%s%s:%d", trendsPrefix(userID), interval, limit)
}
