// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/finance-flow/internal/auth"
	"github.com/iliyamo/finance-flow/internal/handler"
	"github.com/iliyamo/finance-flow/internal/middleware"
)

// Handlers collects every handler the server mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Transactions *handler.TransactionHandler
	Budgets      *handler.BudgetHandler
	Goals        *handler.GoalHandler
	Categories   *handler.CategoryHandler
	Summary      *handler.SummaryHandler
	Insights     *handler.InsightHandler
}

// Register mounts all routes. Everything under /api except the auth entry
// points requires a valid Bearer access token; destructive budget, goal and
// transaction mutations additionally pass MFA enforcement.
func Register(e *echo.Echo, h Handlers, authSvc *auth.Service, limiter echo.MiddlewareFunc) {
	e.GET("/health", handler.Health)

	// Session entry points carry no token yet; the limiter slows
	// credential guessing against them.
	pub := e.Group("/api/auth", limiter)
	pub.POST("/register", h.Auth.Register)
	pub.POST("/login", h.Auth.Login)
	pub.POST("/refresh", h.Auth.Refresh)

	api := e.Group("/api")
	api.Use(middleware.Authenticate(authSvc))
	mfa := middleware.RequireMFA(authSvc)

	api.GET("/auth/me", h.Auth.Me)
	api.POST("/auth/logout", h.Auth.Logout)
	api.POST("/auth/revoke", h.Auth.Revoke)
	api.POST("/auth/mfa/setup", h.Auth.MFASetup)
	api.POST("/auth/mfa/enable", h.Auth.MFAEnable)

	api.GET("/transactions", h.Transactions.List)
	api.GET("/transactions/:id", h.Transactions.Get)
	// Create checks MFA itself: only amounts above the threshold are gated.
	api.POST("/transactions", h.Transactions.Create)
	api.PATCH("/transactions/:id", h.Transactions.Update, mfa)
	api.DELETE("/transactions/:id", h.Transactions.Delete, mfa)

	api.GET("/budgets", h.Budgets.List)
	api.GET("/budgets/:id", h.Budgets.Get)
	api.POST("/budgets", h.Budgets.Create, mfa)
	api.PATCH("/budgets/:id", h.Budgets.Update, mfa)
	api.DELETE("/budgets/:id", h.Budgets.Delete, mfa)

	api.GET("/goals", h.Goals.List)
	api.GET("/goals/:id", h.Goals.Get)
	api.POST("/goals", h.Goals.Create, mfa)
	api.PATCH("/goals/:id", h.Goals.Update, mfa)
	api.DELETE("/goals/:id", h.Goals.Delete, mfa)

	api.GET("/categories", h.Categories.List)
	api.POST("/categories", h.Categories.Create)

	api.GET("/summary", h.Summary.Spending)
	api.GET("/summary/spending", h.Summary.Spending)
	api.GET("/summary/trends", h.Summary.Trends)
	api.GET("/export", h.Summary.Export)

	api.POST("/ai/insights", h.Insights.Generate)
	api.GET("/ai/insights", h.Insights.Latest)
}
