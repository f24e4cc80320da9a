package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/legalaudit/crvc/internal/api"
	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/config"
	"github.com/legalaudit/crvc/internal/events"
	"github.com/legalaudit/crvc/internal/fetcher"
	"github.com/legalaudit/crvc/internal/fetcher/store"
	"github.com/legalaudit/crvc/internal/observability"
	"github.com/legalaudit/crvc/internal/pipeline"
	"github.com/legalaudit/crvc/internal/queue"
	"github.com/legalaudit/crvc/internal/resolver"
	"github.com/legalaudit/crvc/internal/storage"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	logger.Info("Starting CRVC API server v1.0.0")

	metrics := observability.NewMetrics()
	logger.Info("Metrics initialized")

	var jobStore storage.Store
	switch cfg.Database.Driver {
	case "memory", "":
		jobStore = storage.NewMemoryStore()
		logger.Info("Using in-memory job store")

	case "sqlite":
		dbPath := cfg.Database.Database
		if dbPath == "" {
			dbPath = "crvc.db"
		}
		jobStore, err = storage.NewSQLiteStore(dbPath)
		if err != nil {
			logger.Fatalf("Failed to initialize SQLite job store: %v", err)
		}
		logger.Infof("Using SQLite job store: %s", dbPath)

	case "postgres", "postgresql":
		connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.Username,
			cfg.Database.Password, cfg.Database.Database, cfg.Database.SSLMode)
		jobStore, err = storage.NewPostgresStore(connStr)
		if err != nil {
			logger.Fatalf("Failed to initialize PostgreSQL job store: %v", err)
		}
		logger.Infof("Using PostgreSQL job store: %s@%s:%d/%s",
			cfg.Database.Username, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	case "mongodb", "mongo":
		uri := fmt.Sprintf("mongodb://%s:%s@%s:%d",
			cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port)
		if cfg.Database.Username == "" {
			uri = fmt.Sprintf("mongodb://%s:%d", cfg.Database.Host, cfg.Database.Port)
		}
		jobStore, err = storage.NewMongoStore(uri, cfg.Database.Database)
		if err != nil {
			logger.Fatalf("Failed to initialize MongoDB job store: %v", err)
		}
		logger.Infof("Using MongoDB job store: %s:%d/%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	default:
		logger.Fatalf("Unsupported storage driver: %s", cfg.Database.Driver)
	}

	// Wire the CRVC resolution pipeline: allow-list policy, content-addressed
	// fetcher, per-source rate limiter, and the Resolver/Orchestrator that
	// sit behind the API's /resolve and /jobs routes.
	policy := compliance.NewPolicy()
	rateLimitInterval := time.Minute / time.Duration(cfg.Scraper.RateLimitPerMin)
	rateLimiter := fetcher.NewSourceRateLimiter(rateLimitInterval)
	contentStore := store.New(cfg.Scraper.CacheDir)
	f := fetcher.New(policy, rateLimiter, contentStore)
	r := resolver.New(policy, rateLimiter, f)
	orchestrator := pipeline.New(r)

	logger.Info("Resolution pipeline initialized")

	var jobQueue queue.Queue
	switch cfg.Queue.Driver {
	case "memory", "":
		jobQueue = queue.NewMemoryQueue()
		logger.Info("Using in-memory queue")

	case "nats":
		natsConfig := &queue.NATSQueueConfig{
			URL:        cfg.Queue.URL,
			Stream:     "CRVC_JOBS",
			Consumer:   "crvc-worker",
			MaxRetries: cfg.Queue.MaxRetries,
		}
		jobQueue, err = queue.NewNATSQueue(natsConfig)
		if err != nil {
			logger.Fatalf("Failed to initialize NATS queue: %v", err)
		}
		logger.Infof("Using NATS queue: %s", cfg.Queue.URL)

	case "redis":
		redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		redisConfig := &queue.RedisQueueConfig{
			Addr:       redisAddr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			Stream:     "crvc:jobs",
			Group:      "crvc-workers",
			Consumer:   "worker-1",
			MaxRetries: cfg.Queue.MaxRetries,
		}
		jobQueue, err = queue.NewRedisQueue(redisConfig)
		if err != nil {
			logger.Fatalf("Failed to initialize Redis queue: %v", err)
		}
		logger.Infof("Using Redis queue: %s", redisAddr)

	default:
		logger.Fatalf("Unsupported queue driver: %s", cfg.Queue.Driver)
	}

	server := api.NewServer(jobStore, orchestrator, jobQueue, logger, metrics)

	if cfg.Webhooks.Enabled {
		webhooks := events.NewWebhookManager(server.EventBus())
		for _, url := range cfg.Webhooks.URLs {
			if err := webhooks.AddWebhook(&events.Webhook{
				ID:         url,
				URL:        url,
				MaxRetries: cfg.Webhooks.MaxRetries,
				Timeout:    cfg.Webhooks.Timeout,
				Enabled:    true,
			}); err != nil {
				logger.Errorf("Failed to register webhook %s: %v", url, err)
			}
		}
		logger.Infof("Registered %d webhook subscriber(s)", len(cfg.Webhooks.URLs))
	}

	server.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Infof("Starting HTTP server on %s", serverAddr)
		if err := server.Start(serverAddr); err != nil {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(); err != nil {
		logger.Errorf("HTTP server forced to shutdown: %v", err)
	}

	if err := jobQueue.Close(ctx); err != nil {
		logger.Errorf("Failed to close queue: %v", err)
	}

	if err := jobStore.Close(); err != nil {
		logger.Errorf("Failed to close job store: %v", err)
	}

	logger.Info("All servers exited")

	<-ctx.Done()
}
