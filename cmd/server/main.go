// Command server wires the chargeback gateway: mapper registry, expression
// engine, merchant auth, rate limiting, audit trail, and the HTTP surface.
// Business logic lives in the internal packages; main only assembles.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	adminhandler "chargeback-gateway/internal/admin"
	"chargeback-gateway/internal/audit"
	httpapi "chargeback-gateway/internal/http"
	merchantmw "chargeback-gateway/internal/merchant/middleware"
	merchantservice "chargeback-gateway/internal/merchant/service"
	merchantstore "chargeback-gateway/internal/merchant/store"
	"chargeback-gateway/internal/merchant/token"
	"chargeback-gateway/internal/platform/config"
	"chargeback-gateway/internal/platform/httpserver"
	"chargeback-gateway/internal/platform/kafka"
	"chargeback-gateway/internal/platform/logger"
	platformredis "chargeback-gateway/internal/platform/redis"
	ratelimitmetrics "chargeback-gateway/internal/ratelimit/metrics"
	ratelimitmw "chargeback-gateway/internal/ratelimit/middleware"
	ratelimitservice "chargeback-gateway/internal/ratelimit/service"
	"chargeback-gateway/internal/ratelimit/store/bucket"
	"chargeback-gateway/internal/webhook/engine"
	webhookhandler "chargeback-gateway/internal/webhook/handler"
	webhookmetrics "chargeback-gateway/internal/webhook/metrics"
	"chargeback-gateway/internal/webhook/mappers/stripe"
	"chargeback-gateway/internal/webhook/registry"
	webhookservice "chargeback-gateway/internal/webhook/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("gateway exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Merchant store: postgres when configured, in-memory with demo seeds
	// otherwise.
	var store merchantstore.Store
	if cfg.Postgres.URL != "" {
		pg, err := merchantstore.OpenPostgres(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("open merchant store: %w", err)
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate merchant store: %w", err)
		}
		store = pg
		log.Info("merchant store: postgres")
	} else {
		mem := merchantstore.NewInMemory()
		if err := merchantstore.SeedDemoMerchants(ctx, mem); err != nil {
			return fmt.Errorf("seed demo merchants: %w", err)
		}
		store = mem
		log.Info("merchant store: in-memory with demo merchants")
	}

	merchants, err := merchantservice.New(store)
	if err != nil {
		return fmt.Errorf("build merchant service: %w", err)
	}
	tokens := token.New(cfg.TokenSigningKey)
	guard := merchantmw.NewGuard(merchants, tokens, log)

	// Rate limit store: redis when configured so limits hold across
	// instances, in-memory otherwise.
	var buckets bucket.BucketStore = bucket.NewInMemoryBucketStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	var health httpapi.HealthChecker
	if redisClient != nil {
		defer redisClient.Close()
		buckets = bucket.NewRedisStore(redisClient.Client)
		health = redisClient
		log.Info("rate limit store: redis")
	}

	limiter, err := ratelimitservice.New(buckets, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	if err != nil {
		return fmt.Errorf("build rate limiter: %w", err)
	}
	rateLimitMW := ratelimitmw.New(limiter, log,
		ratelimitmw.WithDisabled(cfg.RateLimit.Disabled),
		ratelimitmw.WithMetrics(ratelimitmetrics.New()),
	)

	// Audit trail: kafka when brokers are configured, in-memory otherwise.
	var auditStore audit.Store = audit.NewInMemoryStore()
	producer, err := kafka.NewProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
	if err != nil {
		return fmt.Errorf("connect kafka: %w", err)
	}
	if producer != nil {
		defer producer.Close()
		auditStore = audit.NewKafkaStore(producer)
		log.Info("audit sink: kafka", "topic", cfg.Kafka.AuditTopic)
	}
	publisher := audit.NewPublisher(auditStore, log)
	defer publisher.Close()

	// Normalization pipeline.
	reg := registry.NewBuilder().
		Register(stripe.New(stripe.Config{StrictAmounts: cfg.StrictAmounts})).
		Build()
	pipeline := webhookservice.New(reg, engine.New(), log,
		webhookservice.WithMetrics(webhookmetrics.New()))

	router := httpapi.NewRouter(httpapi.Deps{
		Webhook:    webhookhandler.New(pipeline, publisher, log),
		Admin:      adminhandler.New(reg, store, log),
		Guard:      guard,
		RateLimit:  rateLimitMW,
		APIPrefix:  cfg.APIPrefix,
		AdminToken: cfg.AdminToken,
		Health:     health,
		Logger:     log,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting chargeback gateway",
			"addr", cfg.Addr,
			"providers", reg.Providers(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("gateway stopped")
		return nil
	})

	return g.Wait()
}
