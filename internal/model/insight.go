package model

import "time"

// InsightRecord holds the latest AI-generated analysis for a user, stored
// in the `ai_insights` table. At most one record exists per user; a newer
// generation replaces the previous one.
type InsightRecord struct {
	UserID      string    `json:"userId"`      // ai_insights.user_id
	Insights    string    `json:"insights"`    // ai_insights.insights
	Suggestions []string  `json:"suggestions"` // ai_insights.suggestions (JSON column)
	Flags       []string  `json:"flags"`       // ai_insights.flags (JSON column)
	PeriodStart string    `json:"periodStart"` // ai_insights.period_start
	PeriodEnd   string    `json:"periodEnd"`   // ai_insights.period_end
	GeneratedAt time.Time `json:"generatedAt"` // ai_insights.generated_at
}
