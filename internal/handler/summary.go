package handler

import (
	"context"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/repository"
)

// SummaryStore is the aggregation surface the summary handlers use;
// *repository.SummaryRepo implements it.
type SummaryStore interface {
	Spending(ctx context.Context, userID string) ([]repository.CategorySpend, error)
	Trends(ctx context.Context, userID, interval string, limit int) ([]repository.TrendPoint, error)
}

// SummaryHandler serves spending summaries, trend aggregations and data
// export.
type SummaryHandler struct {
	Summary    SummaryStore
	Txs        TransactionStore
	Categories CategoryStore
}

func NewSummaryHandler(s SummaryStore, t TransactionStore, c CategoryStore) *SummaryHandler {
	return &SummaryHandler{Summary: s, Txs: t, Categories: c}
}

// Spending returns expense totals grouped by category, largest first.
func (h *SummaryHandler) Spending(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	summary, err := h.Summary.Spending(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, summary)
}

// Trends returns calendar-bucketed income/expense series. Buckets with no
// transactions appear as explicit zero rows so charts render unbroken.
func (h *SummaryHandler) Trends(c echo.Context) error {
	userID := c.Get("user_id").(string)

	interval := c.QueryParam("interval")
	if interval == "" {
		interval = repository.IntervalDaily
	}
	if !repository.ValidInterval(interval) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid interval. Must be 'daily', 'weekly', or 'monthly'"})
	}

	limit := repository.DefaultLimit(interval)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	points, err := h.Summary.Trends(ctx, userID, interval, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, points)
}

// Export streams the user's transactions as JSON or CSV for download.
func (h *SummaryHandler) Export(c echo.Context) error {
	userID := c.Get("user_id").(string)

	format := strings.ToLower(c.QueryParam("format"))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "format must be 'json' or 'csv'"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	txs, err := h.Txs.List(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if format == "json" {
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions.json"`)
		return c.JSON(http.StatusOK, txs)
	}

	// Resolve category ids to display names for the CSV.
	names := map[string]string{}
	if cats, err := h.Categories.List(ctx); err == nil {
		for _, cat := range cats {
			names[cat.ID] = cat.Name
		}
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"Date", "Description", "Category", "Type", "Amount"}); err != nil {
		return err
	}
	for _, tx := range txs {
		name := names[tx.CategoryID]
		if name == "" {
			name = tx.CategoryID
		}
		row := []string{
			tx.Date.UTC().Format("2006-01-02"),
			tx.Description,
			name,
			tx.Type,
			tx.Amount,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
