package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/legalaudit/crvc/internal/compliance"
	"github.com/legalaudit/crvc/internal/config"
	"github.com/legalaudit/crvc/internal/events"
	"github.com/legalaudit/crvc/internal/fetcher"
	"github.com/legalaudit/crvc/internal/fetcher/store"
	"github.com/legalaudit/crvc/internal/observability"
	"github.com/legalaudit/crvc/internal/pipeline"
	"github.com/legalaudit/crvc/internal/queue"
	"github.com/legalaudit/crvc/internal/repository"
	"github.com/legalaudit/crvc/internal/resolver"
	"github.com/legalaudit/crvc/internal/storage"
	"github.com/legalaudit/crvc/internal/websocket"
	"github.com/legalaudit/crvc/internal/worker"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	logger.Info("Starting CRVC worker")

	metrics := observability.NewMetrics()

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
		logger.Infof("Using MongoDB job store: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	default:
		logger.Fatalf("Unsupported storage driver: %s", cfg.Database.Driver)
	}
	defer jobStore.Close()

	jobs := repository.NewJobRepository(jobStore)

	policy := compliance.NewPolicy()
	rateLimitInterval := time.Minute / time.Duration(cfg.Scraper.RateLimitPerMin)
	rateLimiter := fetcher.NewSourceRateLimiter(rateLimitInterval)
	contentStore := store.New(cfg.Scraper.CacheDir)
	f := fetcher.New(policy, rateLimiter, contentStore)
	r := resolver.New(policy, rateLimiter, f)
	orchestrator := pipeline.New(r)
	logger.Info("Resolution pipeline initialized")

	var q queue.Queue
	switch cfg.Queue.Driver {
	case "memory", "":
		q = queue.NewMemoryQueue()
		logger.Info("Using in-memory queue")
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
		q, err = queue.NewRedisQueue(redisConfig)
		if err != nil {
			logger.Fatalf("Failed to initialize Redis queue: %v", err)
		}
		logger.Infof("Using Redis queue: %s", redisAddr)
	case "nats":
		natsConfig := &queue.NATSQueueConfig{
			URL:        cfg.Queue.URL,
			Stream:     "CRVC_JOBS",
			Consumer:   "crvc-worker",
			MaxRetries: cfg.Queue.MaxRetries,
		}
		q, err = queue.NewNATSQueue(natsConfig)
		if err != nil {
			logger.Fatalf("Failed to initialize NATS queue: %v", err)
		}
		logger.Infof("Using NATS queue: %s", cfg.Queue.URL)
	default:
		logger.Fatalf("Unsupported queue driver: %s", cfg.Queue.Driver)
	}
	defer q.Close()

	var emitter *websocket.EventEmitter
	if cfg.Server.EnableWebSocket {
		wsServer := websocket.NewServer()
		if err := websocket.Start(context.Background(), wsServer); err != nil {
			logger.Errorf("Failed to start websocket hub: %v", err)
		}
		emitter = websocket.NewEventEmitter(wsServer)

		wsApp := fiber.New(fiber.Config{DisableStartupMessage: true})
		wsApp.Use("/ws", websocket.UpgradeMiddleware())
		wsApp.Get("/ws", wsServer.Handler())
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Server.WebSocketPort)
			logger.Infof("Starting worker websocket server on %s", addr)
			if err := wsApp.Listen(addr); err != nil {
				logger.Errorf("WebSocket server error: %v", err)
			}
		}()
	}

	bus := events.NewBus(256)
	bus.Start(context.Background())
	if cfg.Webhooks.Enabled {
		webhooks := events.NewWebhookManager(bus)
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

	handler := worker.NewResolveHandler(orchestrator, jobs, logger, metrics, emitter, bus)
	logger.Info("Resolve job handler initialized")

	workerCount := cfg.Worker.Count
	if workerCount <= 0 {
		workerCount = 4
	}

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   workerCount,
		JobTimeout:    cfg.Worker.JobTimeout,
		ShutdownGrace: cfg.Worker.ShutdownGrace,
	}, q, handler)

	if err := pool.Start(workerCount); err != nil {
		logger.Fatalf("Failed to start worker pool: %v", err)
	}
	logger.Infof("Worker pool started with %d workers", workerCount)

	if cfg.Observability.MetricsEnabled {
		go func() {
			metricsAddr := fmt.Sprintf(":%d", cfg.Observability.MetricsPort)
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logger.Infof("Starting metrics server on %s", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Errorf("Metrics server error: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	logger.Infof("Received shutdown signal: %s", sig.String())

	if err := pool.Stop(cfg.Worker.ShutdownGrace); err != nil {
		logger.Errorf("Error during worker pool shutdown: %v", err)
	} else {
		logger.Info("Worker pool stopped gracefully")
	}

	bus.Stop()

	logger.Info("CRVC worker shutdown complete")
}
