package api

// Package api provides HTTP API handlers and routes
//
// @title CRVC API
// @version 1.0.0
// @description Citation Resolution and Verification Core API
// @description
// @description Resolves UK case-law citations against the two allow-listed archives
// @description and verifies textual claims against retrieved judgments.
// @description
// @description Features:
// @description - Synchronous citation resolution and claim verification
// @description - Asynchronous resolution jobs on the job queue
// @description - GraphQL resolve/verify queries
// @description - Prometheus metrics and observability
//
// @contact.name Kite API Support
// @contact.url https://github.com/legalaudit/crvc
// @contact.email support@kite-api.example.com
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for authentication. Obtain from your account dashboard.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"
//
// @tag.name Health
// @tag.description Health check and readiness endpoints
//
// @tag.name Resolution
// @tag.description Citation resolution and claim verification
//
// @tag.name Jobs
// @tag.description Asynchronous resolution job management
//
// @tag.name Stats
// @tag.description System and database statistics
//
// @x-logo {"url": "https://raw.githubusercontent.com/gongahkia/kite/main/docs/logo.png", "altText": "Kite Logo"}
