package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"cinemahub-billing/internal/config"
	"cinemahub-billing/internal/infra/api"
	pg "cinemahub-billing/internal/infra/db/postgres"
	"cinemahub-billing/internal/infra/logging"
	"cinemahub-billing/internal/infra/metrics"
	payAdapter "cinemahub-billing/internal/infra/payment"
	red "cinemahub-billing/internal/infra/redis"
	"cinemahub-billing/internal/infra/sched"
	"cinemahub-billing/internal/infra/web"
	"cinemahub-billing/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	dedup := red.NewWebhookDedup(redisClient)

	// ---- Repositories ----
	orderRepo := pg.NewOrderRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Gateway ----
	gateway, err := payAdapter.NewYooKassaGateway(
		cfg.Payment.YooKassa.ShopID,
		cfg.Payment.YooKassa.SecretKey,
		cfg.Payment.YooKassa.Timeout,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("yookassa gateway")
	}

	// ---- Use cases ----
	returnURL := cfg.Payment.ClientURL + "/thanks"
	checkoutUC := usecase.NewCheckoutUseCase(orderRepo, userRepo, gateway, returnURL, logger)
	webhookUC := usecase.NewWebhookUseCase(orderRepo, userRepo, dedup, gateway, tm, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := web.NewServer(checkoutUC, webhookUC, orderUC, auth, cfg.Payment.YooKassa.WebhookSecret, logger)
	router := chi.NewRouter()
	srv.RegisterRoutes(router)
	handler := api.Chain(router,
		api.Recover(logger),
		api.TraceID(),
		api.RequestLog(logger),
		api.Timeout(30*time.Second),
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Expiry sweep ----
	worker := sched.NewExpiryWorker(orderRepo, cfg.Sweeper.Interval, cfg.Sweeper.PendingTTL, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
