package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/anonto42/linkup/backend/internal/handlers"
	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/router"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/pkg/config"
	"github.com/anonto42/linkup/backend/pkg/firebase"
	"github.com/anonto42/linkup/backend/pkg/logger"
	"github.com/anonto42/linkup/backend/validators"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	if err := logger.Init("linkup-api", cfg.Env, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	posts := repositories.NewMongoPostRepository(db.MongoDB)
	if cfg.AutoMigrate {
		if err := repositories.AutoMigrate(db.Postgres); err != nil {
			log.Fatal("failed to auto migrate models", zap.Error(err))
		}
		if err := posts.EnsureIndexes(ctx); err != nil {
			log.Fatal("failed to create post indexes", zap.Error(err))
		}
	}

	opts := services.Options{JWTSecret: cfg.JWTSecret, JWTTTL: cfg.JWTTTL}

	// Firebase is optional; without it firebase login and uploads are off.
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
		if err != nil {
			log.Fatal("failed to initialize firebase", zap.Error(err))
		}
		opts.Verifier = app.AuthClient
		if app.Store != nil {
			opts.Store = app.Store
		}
	} else if cfg.AuthMode == config.AuthModeFirebase {
		log.Fatal("AUTH_MODE=firebase requires FIREBASE_CREDENTIALS_PATH")
	}

	var broker realtime.Broker = realtime.NewLocalBroker()
	if db.Redis != nil {
		broker = realtime.NewRedisBroker(db.Redis)
	}
	opts.Publisher = broker

	svc := services.New(services.PostgresRepos(db.Postgres, posts), opts)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.New()
	config.SetupMiddleware(e, cfg)

	registry := router.SetupRoutes(e, router.Deps{
		Config:   cfg,
		Services: svc,
		Events:   broker,
		Checks:   readinessChecks(db),
	})

	metricsSrv := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: promhttp.Handler()}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	registry.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics shutdown", zap.Error(err))
	}
}

func readinessChecks(db *config.DB) map[string]handlers.Check {
	checks := map[string]handlers.Check{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"mongo": func(ctx context.Context) error {
			return db.Mongo.Ping(ctx, nil)
		},
	}
	if db.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return db.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
