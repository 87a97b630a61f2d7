package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/money"
	"github.com/iliyamo/finance-flow/internal/repository"
)

// BudgetStore is the persistence surface the budget handlers use;
// *repository.BudgetRepo implements it.
type BudgetStore interface {
	List(ctx context.Context, userID string) ([]model.Budget, error)
	Get(ctx context.Context, id string) (model.Budget, error)
	Create(ctx context.Context, b model.Budget) (model.Budget, error)
	Update(ctx context.Context, id, userID string, p repository.BudgetPatch) (model.Budget, error)
	Delete(ctx context.Context, id, userID string) error
}

// BudgetHandler bundles dependencies for budget CRUD.
type BudgetHandler struct {
	Budgets BudgetStore
}

func NewBudgetHandler(b BudgetStore) *BudgetHandler {
	return &BudgetHandler{Budgets: b}
}

type budgetReq struct {
	CategoryID string `json:"categoryId"`
	Amount     string `json:"amount"`
	Period     string `json:"period"` // "monthly" or "yearly"
	Month      *int   `json:"month"`
	Year       int    `json:"year"`
}

func (h *BudgetHandler) List(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	budgets, err := h.Budgets.List(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) Get(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Budgets.Get(ctx, c.Param("id"))
	if err != nil || b.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "budget not found"})
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BudgetHandler) Create(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req budgetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	amount, err := money.Normalize(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	period := strings.ToLower(strings.TrimSpace(req.Period))
	if period != "monthly" && period != "yearly" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "period must be 'monthly' or 'yearly'"})
	}
	if req.CategoryID == "" || req.Year == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "categoryId and year required"})
	}
	if period == "monthly" {
		if req.Month == nil || *req.Month < 1 || *req.Month > 12 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be 1-12 for monthly budgets"})
		}
	} else {
		req.Month = nil // yearly budgets carry no month
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Budgets.Create(ctx, model.Budget{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Amount:     amount,
		Period:     period,
		Month:      req.Month,
		Year:       req.Year,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create budget failed"})
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BudgetHandler) Update(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req struct {
		CategoryID *string `json:"categoryId"`
		Amount     *string `json:"amount"`
		Period     *string `json:"period"`
		Month      *int    `json:"month"`
		Year       *int    `json:"year"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var patch repository.BudgetPatch
	if req.Amount != nil {
		amount, err := money.Normalize(*req.Amount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
		}
		patch.Amount = &amount
	}
	if req.Period != nil {
		p := strings.ToLower(strings.TrimSpace(*req.Period))
		if p != "monthly" && p != "yearly" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "period must be 'monthly' or 'yearly'"})
		}
		patch.Period = &p
	}
	if req.Month != nil {
		if *req.Month < 1 || *req.Month > 12 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be 1-12"})
		}
		patch.Month = req.Month
	}
	patch.CategoryID = req.CategoryID
	patch.Year = req.Year

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Budgets.Update(ctx, c.Param("id"), userID, patch)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "budget not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update budget failed"})
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BudgetHandler) Delete(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Budgets.Delete(ctx, c.Param("id"), userID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "budget not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete budget failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
