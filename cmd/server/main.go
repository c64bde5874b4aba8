package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tourops/backend/internal/application/reconcile"
	"github.com/tourops/backend/internal/domain/travel"
	"github.com/tourops/backend/internal/infrastructure/cache"
	"github.com/tourops/backend/internal/infrastructure/config"
	"github.com/tourops/backend/internal/infrastructure/event"
	"github.com/tourops/backend/internal/infrastructure/logger"
	"github.com/tourops/backend/internal/infrastructure/persistence"
	"github.com/tourops/backend/internal/infrastructure/scheduler"
	"github.com/tourops/backend/internal/interfaces/http/handler"
	"github.com/tourops/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting tour operations backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Record store
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Snapshot bus wires the record store to the reconciliation scheduler
	bus := event.NewInMemorySnapshotBus(log)
	store := persistence.NewRecordStore(db, bus, log)

	// Reconciliation pipeline
	engine := reconcile.NewEngine(
		reconcile.WithNormalizer(reconcile.NewNormalizer(decimal.NewFromFloat(cfg.Reconcile.ExchangeRate))),
		reconcile.WithPaidTolerance(decimal.NewFromFloat(cfg.Reconcile.PaidTolerance)),
	)
	publisher := scheduler.NewViewPublisher()
	sched := scheduler.NewReconcileScheduler(engine, publisher, log, scheduler.ReconcileSchedulerConfig{
		Debounce: cfg.Reconcile.Debounce,
	})

	// Optional Redis mirror of each published view
	if cfg.Redis.Enabled {
		mirror, err := cache.NewRedisViewMirror(cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := mirror.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		sched.OnPublish(mirror.Mirror)
		log.Info("Redis view mirror enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	bus.Subscribe(sched.HandleSnapshot, travel.Collections...)

	ctx := context.Background()
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start snapshot bus", zap.Error(err))
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatal("Failed to start reconcile scheduler", zap.Error(err))
	}

	// Seed the scheduler with one snapshot per collection so the first
	// view publishes without waiting for a write
	if err := store.PublishAll(ctx); err != nil {
		log.Fatal("Failed to publish initial snapshots", zap.Error(err))
	}

	// HTTP surface
	engineHTTP := router.NewEngine(log)
	handler.NewHealthHandler(db, publisher).RegisterRoutes(engineHTTP)
	r := router.NewRouter(engineHTTP)
	r.Register(handler.NewDashboardHandler(publisher))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engineHTTP,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler forced to stop", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Snapshot bus forced to stop", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
