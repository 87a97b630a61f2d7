package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/money"
	"github.com/iliyamo/finance-flow/internal/repository"
)

// GoalStore is the persistence surface the goal handlers use;
// *repository.GoalRepo implements it.
type GoalStore interface {
	List(ctx context.Context, userID string) ([]model.Goal, error)
	Get(ctx context.Context, id string) (model.Goal, error)
	Create(ctx context.Context, g model.Goal) (model.Goal, error)
	Update(ctx context.Context, id, userID string, p repository.GoalPatch) (model.Goal, error)
	Delete(ctx context.Context, id, userID string) error
}

// GoalHandler bundles dependencies for savings-goal CRUD.
type GoalHandler struct {
	Goals GoalStore
}

func NewGoalHandler(g GoalStore) *GoalHandler {
	return &GoalHandler{Goals: g}
}

type goalReq struct {
	Name          string `json:"name"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	Deadline      string `json:"deadline"` // RFC 3339; empty means no deadline
}

func (h *GoalHandler) List(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	goals, err := h.Goals.List(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) Get(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	g, err := h.Goals.Get(ctx, c.Param("id"))
	if err != nil || g.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Create(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req goalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	target, err := money.Normalize(req.TargetAmount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid targetAmount"})
	}
	current := "0.00"
	if req.CurrentAmount != "" {
		current, err = money.Normalize(req.CurrentAmount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid currentAmount"})
		}
	}
	var deadline *time.Time
	if req.Deadline != "" {
		d, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid deadline"})
		}
		d = d.UTC()
		deadline = &d
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	g, err := h.Goals.Create(ctx, model.Goal{
		UserID:        userID,
		Name:          req.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create goal failed"})
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *GoalHandler) Update(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req struct {
		Name          *string `json:"name"`
		TargetAmount  *string `json:"targetAmount"`
		CurrentAmount *string `json:"currentAmount"`
		Deadline      *string `json:"deadline"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var patch repository.GoalPatch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		patch.Name = &name
	}
	if req.TargetAmount != nil {
		target, err := money.Normalize(*req.TargetAmount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid targetAmount"})
		}
		patch.TargetAmount = &target
	}
	if req.CurrentAmount != nil {
		current, err := money.Normalize(*req.CurrentAmount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid currentAmount"})
		}
		patch.CurrentAmount = &current
	}
	if req.Deadline != nil {
		d, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid deadline"})
		}
		d = d.UTC()
		patch.Deadline = &d
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	g, err := h.Goals.Update(ctx, c.Param("id"), userID, patch)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update goal failed"})
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Delete(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Goals.Delete(ctx, c.Param("id"), userID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete goal failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
