// Package insights runs AI insight generation as background jobs: an
// in-process queue drained by a single worker, throttled by a freshness
// window, with the model provider hidden behind the Adapter boundary.
package insights

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/iliyamo/finance-flow/internal/money"
	"github.com/iliyamo/finance-flow/internal/repository"
)

// Request is the anonymized aggregate handed to the model adapter. No raw
// transactions cross this boundary.
type Request struct {
	TotalExpenses     string
	CategoryBreakdown []repository.CategorySpend
	TransactionCount  int
	PeriodStart       string
	PeriodEnd         string
}

// Response is what an adapter produces for one request.
type Response struct {
	Insights    string
	Suggestions []string
	Flags       []string
	GeneratedAt time.Time
}

// Adapter is the external-AI capability boundary.
type Adapter interface {
	GenerateInsights(ctx context.Context, req Request) (Response, error)
}

// NewAdapter selects an adapter by the AI_MODEL_PROVIDER environment
// variable. Only the mock provider ships with the server; anything else
// falls back to it with a warning.
func NewAdapter() Adapter {
	provider := os.Getenv("AI_MODEL_PROVIDER")
	if provider != "" && provider != "mock" {
		log.Printf("insights: unknown provider %q, using mock", provider)
	}
	return MockAdapter{}
}

// MockAdapter produces deterministic heuristic insights so the rest of the
// pipeline can run without a model provider configured.
type MockAdapter struct{}

func (MockAdapter) GenerateInsights(_ context.Context, req Request) (Response, error) {
	total, err := money.Parse(req.TotalExpenses)
	if err != nil {
		total = 0
	}

	flags := []string{}
	for _, c := range req.CategoryBreakdown {
		cents, err := money.Parse(c.Amount)
		if err != nil {
			continue
		}
		// A single category above 30% of total spend is worth surfacing.
		if total > 0 && cents*10 > total*3 {
			flags = append(flags, "High spend in "+c.Category)
		}
	}

	return Response{
		Insights: fmt.Sprintf("Your expenses for the period were $%s across %d transactions. Consider reviewing top categories.",
			req.TotalExpenses, req.TransactionCount),
		Suggestions: []string{
			"Review your largest expense category and try reducing it by 10%",
			"Set a weekly grocery budget and track progress",
			"Consider automating savings with a small transfer each payday",
		},
		Flags:       flags,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
