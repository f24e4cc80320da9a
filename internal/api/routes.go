package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/legalaudit/crvc/internal/api/handlers"
	"github.com/legalaudit/crvc/internal/api/middleware"
	"github.com/legalaudit/crvc/internal/events"
	"github.com/legalaudit/crvc/internal/graphql"
	"github.com/legalaudit/crvc/internal/observability"
	"github.com/legalaudit/crvc/internal/pipeline"
	"github.com/legalaudit/crvc/internal/queue"
	"github.com/legalaudit/crvc/internal/repository"
	"github.com/legalaudit/crvc/internal/storage"
	"github.com/legalaudit/crvc/internal/websocket"
)

// Server represents the HTTP server
type Server struct {
	app          *fiber.App
	store        storage.Store
	orchestrator *pipeline.Orchestrator
	jobs         *repository.JobRepository
	jobQueue     queue.Queue
	logger       *observability.Logger
	metrics      *observability.Metrics
	ws           *websocket.Server
	wsEmitter    *websocket.EventEmitter
	bus          *events.Bus
}

// NewServer creates a new API server
func NewServer(store storage.Store, orchestrator *pipeline.Orchestrator, jobQueue queue.Queue, logger *observability.Logger, metrics *observability.Metrics) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "CRVC API v1.0.0",
		ServerHeader: "CRVC",
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	ws := websocket.NewServer()
	if err := websocket.Start(context.Background(), ws); err != nil {
		logger.WithField("error", err.Error()).Error("failed to start websocket hub")
	}

	bus := events.NewBus(256)
	bus.Start(context.Background())

	return &Server{
		app:          app,
		store:        store,
		orchestrator: orchestrator,
		jobs:         repository.NewJobRepository(store),
		jobQueue:     jobQueue,
		logger:       logger,
		metrics:      metrics,
		ws:           ws,
		wsEmitter:    websocket.NewEventEmitter(ws),
		bus:          bus,
	}
}

// EventBus returns the server's in-process event bus, so callers can
// register additional webhook subscribers (SPEC_FULL.md §6.5).
func (s *Server) EventBus() *events.Bus {
	return s.bus
}

// EventEmitter returns the server's WebSocket event emitter, so callers
// wiring an async worker in the same process can stream its progress
// through the same hub (SPEC_FULL.md §6.4).
func (s *Server) EventEmitter() *websocket.EventEmitter {
	return s.wsEmitter
}

// SetupRoutes configures all API routes
func (s *Server) SetupRoutes() {
	// Apply global middleware
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Metrics(s.metrics))

	// Health endpoints
	s.app.Get("/health", handlers.HealthCheck(s.store))
	s.app.Get("/ready", handlers.ReadinessCheck(s.store))

	// Metrics endpoint
	s.app.Get("/metrics", handlers.MetricsHandler(s.metrics))

	// API v1 routes
	api := s.app.Group("/api/v1")

	// WebSocket progress stream (SPEC_FULL.md §6.4)
	s.app.Use("/ws", websocket.UpgradeMiddleware())
	s.app.Get("/ws", s.ws.Handler())

	// Resolution routes: the CRVC's one real operation (spec.md §4.7, §4.9)
	resolutionHandler := handlers.NewResolutionHandler(s.orchestrator, s.jobs, s.jobQueue, s.logger, s.wsEmitter, s.bus)
	api.Post("/resolve", resolutionHandler.Resolve)
	api.Post("/verify", resolutionHandler.Verify)

	jobs := api.Group("/jobs")
	jobs.Post("/", resolutionHandler.CreateJob)
	jobs.Get("/", resolutionHandler.ListJobs)
	jobs.Get("/:id", resolutionHandler.GetJob)

	// Stats routes
	statsHandler := handlers.NewStatsHandler(s.store, s.logger)
	api.Get("/stats", statsHandler.GetStats)

	// GraphQL surface (SPEC_FULL.md §6.3): same two operations, graphql-go wiring.
	gqlResolver := graphql.NewResolver(s.orchestrator)
	gqlSchema, err := graphql.BuildSchema(gqlResolver)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("failed to build graphql schema")
	} else {
		s.app.Post("/graphql", graphql.Handler(gqlSchema))
		s.app.Get("/graphql/playground", graphql.PlaygroundHandler())
	}

	// 404 handler
	s.app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resource not found",
			"path":  c.Path(),
		})
	})
}

// GetApp returns the Fiber app
func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	return s.app.Listen(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
