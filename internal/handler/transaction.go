package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/auth"
	"github.com/iliyamo/finance-flow/internal/config"
	"github.com/iliyamo/finance-flow/internal/middleware"
	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/money"
	"github.com/iliyamo/finance-flow/internal/repository"
)

// TransactionStore is the persistence surface the transaction handlers
// use; *repository.TransactionRepo implements it.
type TransactionStore interface {
	List(ctx context.Context, userID string) ([]model.Transaction, error)
	Get(ctx context.Context, id string) (model.Transaction, error)
	Create(ctx context.Context, t model.Transaction) (model.Transaction, error)
	Update(ctx context.Context, id, userID string, p repository.TransactionPatch) (model.Transaction, error)
	Delete(ctx context.Context, id, userID string) error
}

// TransactionHandler bundles dependencies for transaction CRUD.
type TransactionHandler struct {
	Cfg  config.Config
	Txs  TransactionStore
	Auth *auth.Service
}

func NewTransactionHandler(cfg config.Config, t TransactionStore, a *auth.Service) *TransactionHandler {
	return &TransactionHandler{Cfg: cfg, Txs: t, Auth: a}
}

type transactionReq struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
	Date        string `json:"date"` // RFC 3339; empty means now
	Type        string `json:"type"`
}

// List returns the user's transactions, newest first.
func (h *TransactionHandler) List(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	txs, err := h.Txs.List(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, txs)
}

// Get returns a single transaction owned by the user.
func (h *TransactionHandler) Get(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tx, err := h.Txs.Get(ctx, c.Param("id"))
	if err != nil || tx.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
	}
	return c.JSON(http.StatusOK, tx)
}

// Create records a new transaction. Creates at or above the configured
// amount threshold additionally require a valid MFA code for users with MFA
// enabled; everyday small transactions stay friction-free.
func (h *TransactionHandler) Create(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req transactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	amount, err := money.Normalize(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if req.Type != model.TypeIncome && req.Type != model.TypeExpense {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be 'income' or 'expense'"})
	}
	if strings.TrimSpace(req.Description) == "" || req.CategoryID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description and categoryId required"})
	}
	date := time.Now().UTC()
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		date = date.UTC()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cents, _ := money.Parse(amount)
	if cents >= h.Cfg.MFAAmountThreshold {
		code := c.Request().Header.Get("X-MFA-Token")
		if err := h.Auth.RequireMFA(ctx, userID, code); err != nil {
			return middleware.MFAError(err)
		}
	}

	tx, err := h.Txs.Create(ctx, model.Transaction{
		UserID:      userID,
		Amount:      amount,
		Description: strings.TrimSpace(req.Description),
		CategoryID:  req.CategoryID,
		Date:        date,
		Type:        req.Type,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create transaction failed"})
	}
	return c.JSON(http.StatusCreated, tx)
}

// Update patches the fields present in the body.
func (h *TransactionHandler) Update(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req struct {
		Amount      *string `json:"amount"`
		Description *string `json:"description"`
		CategoryID  *string `json:"categoryId"`
		Date        *string `json:"date"`
		Type        *string `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var patch repository.TransactionPatch
	if req.Amount != nil {
		amount, err := money.Normalize(*req.Amount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
		}
		patch.Amount = &amount
	}
	if req.Description != nil {
		patch.Description = req.Description
	}
	if req.CategoryID != nil {
		patch.CategoryID = req.CategoryID
	}
	if req.Date != nil {
		d, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		d = d.UTC()
		patch.Date = &d
	}
	if req.Type != nil {
		t := strings.ToLower(strings.TrimSpace(*req.Type))
		if t != model.TypeIncome && t != model.TypeExpense {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be 'income' or 'expense'"})
		}
		patch.Type = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tx, err := h.Txs.Update(ctx, c.Param("id"), userID, patch)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update transaction failed"})
	}
	return c.JSON(http.StatusOK, tx)
}

// Delete removes a transaction owned by the user.
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID := c.Get("user_id").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Txs.Delete(ctx, c.Param("id"), userID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete transaction failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
