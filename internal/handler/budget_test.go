package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/repository"
)

type memBudgetStore struct {
	budgets map[string]model.Budget
}

func (m *memBudgetStore) List(_ context.Context, userID string) ([]model.Budget, error) {
	out := []model.Budget{}
	for _, b := range m.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBudgetStore) Get(_ context.Context, id string) (model.Budget, error) {
	b, ok := m.budgets[id]
	if !ok {
		return model.Budget{}, repository.ErrNotFound
	}
	return b, nil
}

func (m *memBudgetStore) Create(_ context.Context, b model.Budget) (model.Budget, error) {
	b.ID = uuid.NewString()
	m.budgets[b.ID] = b
	return b, nil
}

func (m *memBudgetStore) Update(_ context.Context, id, userID string, p repository.BudgetPatch) (model.Budget, error) {
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return model.Budget{}, repository.ErrNotFound
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.Month != nil {
		b.Month = p.Month
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}
	m.budgets[id] = b
	return b, nil
}

func (m *memBudgetStore) Delete(_ context.Context, id, userID string) error {
	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.budgets, id)
	return nil
}

func newBudgetEnv() (*BudgetHandler, *memBudgetStore) {
	store := &memBudgetStore{budgets: map[string]model.Budget{}}
	return NewBudgetHandler(store), store
}

func doBudget(h *BudgetHandler, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	g := e.Group("", asUser("u1"))
	g.GET("/api/budgets", h.List)
	g.POST("/api/budgets", h.Create)
	g.PATCH("/api/budgets/:id", h.Update)
	g.DELETE("/api/budgets/:id", h.Delete)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateMonthlyBudget(t *testing.T) {
	h, _ := newBudgetEnv()

	rec := doBudget(h, http.MethodPost, "/api/budgets",
		`{"categoryId":"c1","amount":"300","period":"monthly","month":3,"year":2025}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var b model.Budget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, "300.00", b.Amount)
	require.NotNil(t, b.Month)
	assert.Equal(t, 3, *b.Month)
}

func TestCreateMonthlyBudgetRequiresMonth(t *testing.T) {
	h, _ := newBudgetEnv()

	rec := doBudget(h, http.MethodPost, "/api/budgets",
		`{"categoryId":"c1","amount":"300","period":"monthly","year":2025}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "month must be 1-12")
}

func TestCreateYearlyBudgetDropsMonth(t *testing.T) {
	h, _ := newBudgetEnv()

	rec := doBudget(h, http.MethodPost, "/api/budgets",
		`{"categoryId":"c1","amount":"1200","period":"yearly","month":6,"year":2025}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var b model.Budget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Nil(t, b.Month)
}

func TestCreateBudgetRejectsUnknownPeriod(t *testing.T) {
	h, _ := newBudgetEnv()

	rec := doBudget(h, http.MethodPost, "/api/budgets",
		`{"categoryId":"c1","amount":"300","period":"weekly","year":2025}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "period must be")
}

func TestUpdateBudgetScopedToOwner(t *testing.T) {
	h, store := newBudgetEnv()
	store.budgets["b9"] = model.Budget{ID: "b9", UserID: "someone-else", Amount: "10.00", Period: "yearly", Year: 2025}

	rec := doBudget(h, http.MethodPatch, "/api/budgets/b9", `{"amount":"99"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
