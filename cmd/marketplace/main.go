package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/maritani/marketplace/internal/auth"
	"github.com/maritani/marketplace/internal/cart"
	"github.com/maritani/marketplace/internal/catalog"
	"github.com/maritani/marketplace/internal/checkout"
	"github.com/maritani/marketplace/internal/httpserver"
	"github.com/maritani/marketplace/internal/models"
	"github.com/maritani/marketplace/internal/order"
	"github.com/maritani/marketplace/pkg/cache"
	"github.com/maritani/marketplace/pkg/config"
	pkgdb "github.com/maritani/marketplace/pkg/db"
	"github.com/maritani/marketplace/pkg/events"
	"github.com/maritani/marketplace/pkg/logging"
	"github.com/maritani/marketplace/pkg/search"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel, cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, pkgdb.Options{Logger: logger})
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	if err := models.Migrate(db.WithContext(ctx)); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	cancel()
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	pub := events.New(cfg.KafkaBrokers)
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("kafka disabled, events are dropped")
	}

	var index catalog.SearchIndex
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		index = catalog.NewBreakerIndex(catalog.NewESIndex(es, cfg.ESIndex), 5, 30*time.Second)
	} else {
		logger.Warn("elasticsearch disabled, search falls back to the database")
	}

	catalogSvc := catalog.NewService(
		catalog.NewGormRepo(db),
		catalog.NewListCache(rdb, cfg.CatalogCacheTTL),
		index,
		pub,
	)
	carts := cart.NewRedisRepository(rdb, cfg.CartTTL)
	orders := order.NewService(order.NewGormRepo(db), pub, cfg.VerifyOrderPrices)
	placer := order.NewIdempotentPlacer(orders, rdb, cfg.IdempotencyTTL)

	e := echo.New()
	e.HideBanner = true
	httpserver.Common(e, logger)
	httpserver.Register(e, &httpserver.Deps{
		DB:             db,
		Redis:          rdb,
		JWTSecret:      cfg.JWTAccessSecret,
		CSRF:           cfg.CSRFEnabled,
		AuthHandler:    &httpserver.AuthHTTP{Svc: auth.NewService(db, cfg.JWTAccessSecret, cfg.AccessTokenTTL)},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		CartHandler:    &httpserver.CartHTTP{Svc: cart.NewService(carts, catalogSvc)},
		OrderHandler: &httpserver.OrderHTTP{
			Orders:    placer,
			Reader:    orders,
			Checkouts: checkout.NewService(carts, placer),
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("marketplace listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	if err := rdb.Close(); err != nil {
		logger.Error("redis close", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("marketplace stopped")
}
