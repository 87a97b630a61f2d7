package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/finance-flow/internal/auth"
	"github.com/iliyamo/finance-flow/internal/cache"
	"github.com/iliyamo/finance-flow/internal/config"
	"github.com/iliyamo/finance-flow/internal/database"
	"github.com/iliyamo/finance-flow/internal/handler"
	"github.com/iliyamo/finance-flow/internal/insights"
	"github.com/iliyamo/finance-flow/internal/middleware"
	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/queue"
	"github.com/iliyamo/finance-flow/internal/repository"
	"github.com/iliyamo/finance-flow/internal/router"
	queue_publisher "github.com/iliyamo/finance-flow/internal/service"
)

// insightStore composes the repositories the insight worker reads and
// writes through.
type insightStore struct {
	summary *repository.SummaryRepo
	txs     *repository.TransactionRepo
	recs    *repository.InsightRepo
}

func (s insightStore) Spending(ctx context.Context, userID string) ([]repository.CategorySpend, error) {
	return s.summary.Spending(ctx, userID)
}
func (s insightStore) CountTransactions(ctx context.Context, userID string) (int, error) {
	return s.txs.CountByUser(ctx, userID)
}
func (s insightStore) LatestInsight(ctx context.Context, userID string) (model.InsightRecord, error) {
	return s.recs.Latest(ctx, userID)
}
func (s insightStore) SaveInsight(ctx context.Context, rec model.InsightRecord) error {
	return s.recs.Save(ctx, rec)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: without it the cache falls back to an in-process map,
	// token versions reset on restart and auth rate limiting is disabled.
	var store cache.Cache
	rdb := config.NewRedisClient()
	if rdb != nil {
		store = cache.New(rdb)
		defer func() { _ = rdb.Close() }()
	} else {
		log.Println("redis unavailable, using in-memory cache")
		store = cache.NewMemory()
	}

	users := repository.NewUserRepo(db)
	txs := repository.NewTransactionRepo(db, store, cfg.CacheListTTL)
	budgets := repository.NewBudgetRepo(db, store, cfg.CacheListTTL)
	goals := repository.NewGoalRepo(db, store, cfg.CacheListTTL)
	categories := repository.NewCategoryRepo(db, store, cfg.CacheCategoryTTL)
	summary := repository.NewSummaryRepo(db, store, cfg.CacheSummaryTTL)
	insightRecs := repository.NewInsightRepo(db)

	authSvc := auth.NewService(store, users, cfg)

	insightSvc := insights.NewService(
		insightStore{summary: summary, txs: txs, recs: insightRecs},
		insights.NewAdapter(),
		cfg.InsightFreshness,
		queue_publisher.PublishInsightGenerated,
	)

	// The consumer is optional tooling: it drains insight.generated events
	// into an audit log when a broker is configured.
	if amqpURL := firstEnv("RABBITMQ_URL", "AMQP_URL"); amqpURL != "" {
		go func() {
			if err := queue.StartInsightConsumer(amqpURL); err != nil {
				log.Printf("insight consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.NewErrorHandler(cfg.Env)
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, authSvc),
		Transactions: handler.NewTransactionHandler(cfg, txs, authSvc),
		Budgets:      handler.NewBudgetHandler(budgets),
		Goals:        handler.NewGoalHandler(goals),
		Categories:   handler.NewCategoryHandler(categories),
		Summary:      handler.NewSummaryHandler(summary, txs, categories),
		Insights:     handler.NewInsightHandler(insightSvc),
	}, authSvc, middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	// Block until interrupted, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("server stopped")
}
