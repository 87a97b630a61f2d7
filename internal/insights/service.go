package insights

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/money"
	"github.com/iliyamo/finance-flow/internal/queue"
	"github.com/iliyamo/finance-flow/internal/repository"
)

// Store is the persistence surface the insight worker needs. The wiring in
// cmd/server composes it from the summary, transaction and insight
// repositories.
type Store interface {
	Spending(ctx context.Context, userID string) ([]repository.CategorySpend, error)
	CountTransactions(ctx context.Context, userID string) (int, error)
	LatestInsight(ctx context.Context, userID string) (model.InsightRecord, error)
	SaveInsight(ctx context.Context, rec model.InsightRecord) error
}

// PublishFunc emits an event after an insight record is stored. Publishing
// is best-effort; failures are logged and never fail the job.
type PublishFunc func(ctx context.Context, event queue.InsightGeneratedEvent) error

type job struct {
	id     string
	userID string
	start  string // YYYY-MM-DD, empty means one month back
	end    string // YYYY-MM-DD, empty means today
}

// Service owns the in-process insight job queue. Jobs are appended under a
// mutex and drained by at most one worker goroutine at a time.
type Service struct {
	store     Store
	adapter   Adapter
	freshness time.Duration
	publish   PublishFunc

	mu         sync.Mutex
	jobs       []job
	processing bool
}

func NewService(store Store, adapter Adapter, freshness time.Duration, publish PublishFunc) *Service {
	return &Service{
		store:     store,
		adapter:   adapter,
		freshness: freshness,
		publish:   publish,
	}
}

// Request asks for fresh insights for a user over an optional analysis
// period (YYYY-MM-DD bounds; blank means the trailing month). When a record
// newer than the freshness window already exists it returns cached=true and
// no job is queued. Otherwise the job id of the queued generation is
// returned.
func (s *Service) Request(ctx context.Context, userID, startDate, endDate string) (jobID string, cached bool, err error) {
	rec, err := s.store.LatestInsight(ctx, userID)
	if err == nil && time.Since(rec.GeneratedAt) < s.freshness {
		return "", true, nil
	}
	if err != nil && err != repository.ErrNotFound {
		return "", false, err
	}

	id := strconv.FormatInt(time.Now().UnixNano(), 10)

	s.mu.Lock()
	s.jobs = append(s.jobs, job{id: id, userID: userID, start: startDate, end: endDate})
	start := !s.processing
	if start {
		s.processing = true
	}
	s.mu.Unlock()

	if start {
		go s.drain()
	}
	return id, false, nil
}

// Latest returns the stored insight record for a user.
func (s *Service) Latest(ctx context.Context, userID string) (model.InsightRecord, error) {
	return s.store.LatestInsight(ctx, userID)
}

// drain processes queued jobs one at a time until the queue empties.
func (s *Service) drain() {
	for {
		s.mu.Lock()
		if len(s.jobs) == 0 {
			s.processing = false
			s.mu.Unlock()
			return
		}
		j := s.jobs[0]
		s.jobs = s.jobs[1:]
		s.mu.Unlock()

		s.process(j)
	}
}

func (s *Service) process(j job) {
	ctx := context.Background()

	count, err := s.store.CountTransactions(ctx, j.userID)
	if err != nil {
		log.Printf("insights: job %s: count transactions: %v", j.id, err)
		return
	}
	breakdown, err := s.store.Spending(ctx, j.userID)
	if err != nil {
		log.Printf("insights: job %s: spending summary: %v", j.id, err)
		return
	}

	totalCents := int64(0)
	for _, c := range breakdown {
		cents, err := money.Parse(c.Amount)
		if err != nil {
			continue
		}
		totalCents += cents
	}

	now := time.Now().UTC()
	periodStart := j.start
	if periodStart == "" {
		periodStart = now.AddDate(0, -1, 0).Format("2006-01-02")
	}
	periodEnd := j.end
	if periodEnd == "" {
		periodEnd = now.Format("2006-01-02")
	}

	resp, err := s.adapter.GenerateInsights(ctx, Request{
		TotalExpenses:     money.Format(totalCents),
		CategoryBreakdown: breakdown,
		TransactionCount:  count,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
	})
	if err != nil {
		log.Printf("insights: job %s: adapter: %v", j.id, err)
		return
	}

	rec := model.InsightRecord{
		UserID:      j.userID,
		Insights:    resp.Insights,
		Suggestions: resp.Suggestions,
		Flags:       resp.Flags,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		GeneratedAt: resp.GeneratedAt,
	}
	if err := s.store.SaveInsight(ctx, rec); err != nil {
		log.Printf("insights: job %s: save: %v", j.id, err)
		return
	}

	if s.publish != nil {
		event := queue.InsightGeneratedEvent{
			UserID:           j.userID,
			PeriodStart:      periodStart,
			PeriodEnd:        periodEnd,
			SuggestionCount:  len(resp.Suggestions),
			FlagCount:        len(resp.Flags),
			TransactionCount: count,
			GeneratedAt:      resp.GeneratedAt.UTC().Format(time.RFC3339),
		}
		if err := s.publish(ctx, event); err != nil {
			log.Printf("insights: job %s: publish event: %v", j.id, err)
		}
	}
}
