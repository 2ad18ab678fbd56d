package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/gulfpay/internal/application/events"
	"github.com/DanielPopoola/gulfpay/internal/application/services"
	"github.com/DanielPopoola/gulfpay/internal/config"
	"github.com/DanielPopoola/gulfpay/internal/infrastructure/gateway"
	eventkafka "github.com/DanielPopoola/gulfpay/internal/infrastructure/messaging/kafka"
	"github.com/DanielPopoola/gulfpay/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/gulfpay/internal/interfaces/rest/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting gateway service",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := gateway.NewClient(cfg.Client,
		gateway.WithLogger(logger),
		gateway.WithMetrics(gateway.NewMetrics(registry)),
	)
	if err != nil {
		logger.Error("failed to create payment API client", "error", err)
		os.Exit(1)
	}

	bus := events.NewBus()
	bus.SubscribeAll(events.NewLogListener(logger))
	bus.SubscribeAll(events.NewMetricsListener(registry))

	ctx := context.Background()

	if cfg.Database.Enabled {
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		bus.SubscribeAll(postgres.NewEventRepository(db, logger))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := eventkafka.NewPublisher(eventkafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("failed to close event publisher", "error", err)
			}
		}()

		bus.SubscribeAll(publisher)
		logger.Info("publishing events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	callbackService := services.NewCallbackService(client, bus, logger)
	webhookService := services.NewWebhookService(bus, cfg.Webhook.AllowedResources, logger)

	h := handlers.NewHandlers(
		webhookService,
		callbackService,
		client.Amounts(),
		logger,
	)

	if cfg.Webhook.Secret == "" {
		logger.Warn("webhook signature verification disabled: no secret configured")
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux, registry,
		middleware.WebhookSignature(cfg.Webhook.Secret, cfg.Webhook.ToleranceDuration(), logger),
		middleware.RedirectGuard(cfg.Callback.AllowedHosts, logger),
	)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
