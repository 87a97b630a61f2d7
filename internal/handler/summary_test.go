package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/repository"
)

type stubSummary struct {
	spending     []repository.CategorySpend
	lastInterval string
	lastLimit    int
}

func (s *stubSummary) Spending(_ context.Context, _ string) ([]repository.CategorySpend, error) {
	return s.spending, nil
}

func (s *stubSummary) Trends(_ context.Context, _ string, interval string, limit int) ([]repository.TrendPoint, error) {
	s.lastInterval = interval
	s.lastLimit = limit
	return []repository.TrendPoint{}, nil
}

type stubCategories struct {
	cats []model.Category
}

func (s *stubCategories) List(_ context.Context) ([]model.Category, error) {
	return s.cats, nil
}

func (s *stubCategories) Create(_ context.Context, c model.Category) (model.Category, error) {
	c.ID = "new"
	s.cats = append(s.cats, c)
	return c, nil
}

func newSummaryEnv() (*SummaryHandler, *stubSummary, *memTxStore) {
	summary := &stubSummary{spending: []repository.CategorySpend{
		{Category: "Food", Amount: "120.00"},
		{Category: "Transport", Amount: "30.00"},
	}}
	txs := newMemTxStore()
	cats := &stubCategories{cats: []model.Category{{ID: "c1", Name: "Food"}}}
	return NewSummaryHandler(summary, txs, cats), summary, txs
}

func doSummary(h *SummaryHandler, path string) *httptest.ResponseRecorder {
	e := echo.New()
	g := e.Group("", asUser("u1"))
	g.GET("/api/summary/spending", h.Spending)
	g.GET("/api/summary/trends", h.Trends)
	g.GET("/api/export", h.Export)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSpendingSummary(t *testing.T) {
	h, _, _ := newSummaryEnv()

	rec := doSummary(h, "/api/summary/spending")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Food")
	assert.Contains(t, rec.Body.String(), "120.00")
}

func TestTrendsDefaultsToDaily(t *testing.T) {
	h, summary, _ := newSummaryEnv()

	rec := doSummary(h, "/api/summary/trends")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, repository.IntervalDaily, summary.lastInterval)
	assert.Equal(t, 30, summary.lastLimit)
}

func TestTrendsIntervalAndLimit(t *testing.T) {
	h, summary, _ := newSummaryEnv()

	rec := doSummary(h, "/api/summary/trends?interval=weekly&limit=8")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, repository.IntervalWeekly, summary.lastInterval)
	assert.Equal(t, 8, summary.lastLimit)
}

func TestTrendsRejectsInvalidInterval(t *testing.T) {
	h, _, _ := newSummaryEnv()

	rec := doSummary(h, "/api/summary/trends?interval=hourly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid interval. Must be 'daily', 'weekly', or 'monthly'")
}

func TestTrendsRejectsInvalidLimit(t *testing.T) {
	h, _, _ := newSummaryEnv()

	for _, q := range []string{"limit=0", "limit=-3", "limit=abc"} {
		rec := doSummary(h, "/api/summary/trends?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, rec.Body.String(), "invalid limit")
	}
}

func TestExportCSV(t *testing.T) {
	h, _, txs := newSummaryEnv()
	txs.txs["t1"] = model.Transaction{
		ID:          "t1",
		UserID:      "u1",
		Amount:      "42.50",
		Description: "groceries",
		CategoryID:  "c1",
		Date:        time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
		Type:        model.TypeExpense,
	}

	rec := doSummary(h, "/api/export?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "transactions.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Description,Category,Type,Amount", strings.TrimSpace(lines[0]))
	assert.Equal(t, "2025-03-10,groceries,Food,expense,42.50", strings.TrimSpace(lines[1]))
}

func TestExportJSON(t *testing.T) {
	h, _, txs := newSummaryEnv()
	txs.txs["t1"] = model.Transaction{ID: "t1", UserID: "u1", Amount: "1.00", Type: model.TypeIncome}

	rec := doSummary(h, "/api/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "transactions.json")
	assert.Contains(t, rec.Body.String(), `"t1"`)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	h, _, _ := newSummaryEnv()

	rec := doSummary(h, "/api/export?format=xml")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "format must be")
}
