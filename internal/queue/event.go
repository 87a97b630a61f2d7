// Package queue defines message payloads exchanged over the message broker
// and the background consumer that audits them.
package queue

// InsightGeneratedEvent is published after an AI insight job persists its
// record. It carries enough for downstream consumers to log or notify
// without querying the primary database.
type InsightGeneratedEvent struct {
	UserID           string `json:"user_id"`
	PeriodStart      string `json:"period_start"`
	PeriodEnd        string `json:"period_end"`
	SuggestionCount  int    `json:"suggestion_count"`
	FlagCount        int    `json:"flag_count"`
	TransactionCount int    `json:"transaction_count"`
	GeneratedAt      string `json:"generated_at"`
}
