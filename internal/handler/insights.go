package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/insights"
	"github.com/iliyamo/finance-flow/internal/repository"
)

// InsightHandler exposes the background insight pipeline.
type InsightHandler struct {
	Insights *insights.Service
}

func NewInsightHandler(s *insights.Service) *InsightHandler {
	return &InsightHandler{Insights: s}
}

type insightReq struct {
	StartDate string `json:"startDate"` // YYYY-MM-DD, optional
	EndDate   string `json:"endDate"`   // YYYY-MM-DD, optional
}

// Generate queues insight generation for the user over an optional analysis
// period. A record younger than the freshness window short-circuits with
// status "cached" and no new job.
func (h *InsightHandler) Generate(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req insightReq
	_ = c.Bind(&req) // empty body is fine; the period defaults server-side
	for _, d := range []string{req.StartDate, req.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
		}
	}

	jobID, cached, err := h.Insights.Request(c.Request().Context(), userID, req.StartDate, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "queue insights failed"})
	}
	if cached {
		return c.JSON(http.StatusOK, echo.Map{"status": "cached"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "processing", "jobId": jobID})
}

// Latest returns the stored insight record, or 404 when none has been
// generated yet.
func (h *InsightHandler) Latest(c echo.Context) error {
	userID := c.Get("user_id").(string)

	rec, err := h.Insights.Latest(c.Request().Context(), userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no insights generated yet"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rec)
}
