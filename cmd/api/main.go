package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ggorockee/leadmaps/internal/config"
	"github.com/ggorockee/leadmaps/internal/database"
	"github.com/ggorockee/leadmaps/internal/handlers"
	applogger "github.com/ggorockee/leadmaps/internal/logger"
	"github.com/ggorockee/leadmaps/internal/middleware"
	"github.com/ggorockee/leadmaps/internal/services"
	"github.com/ggorockee/leadmaps/internal/telemetry"
	"github.com/ggorockee/leadmaps/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

const (
	serviceName    = "leadmaps-web"
	serviceVersion = "1.0.0"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := applogger.Init(cfg.ServerEnv, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer applogger.Sync()
	zlog := applogger.GetLogger("main")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.Init(ctx, serviceName, serviceVersion, cfg.SigNozEndpoint)
	if err != nil {
		zlog.Warnw("Failed to initialize telemetry", "error", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			zlog.Warnw("Error shutting down telemetry", "error", err)
		}
	}()

	db, err := database.Connect(cfg)
	if err != nil {
		zlog.Fatalw("Failed to connect to database", "error", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			zlog.Warnw("Error closing database", "error", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		zlog.Fatalw("Failed to run migrations", "error", err)
	}

	go database.StartConnectionPoolMetricsCollector(ctx, db, 15*time.Second)

	app := fiber.New(fiber.Config{
		AppName:      "Leadmaps",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	// JSON 구조화 access log
	app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "Asia/Seoul",
	}))
	app.Use(telemetry.New())
	app.Use(middleware.Prometheus())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "Accept, Content-Type, Origin",
		MaxAge:       86400,
	}))

	setupRoutes(app, db, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		zlog.Info("Shutting down server...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Warnw("Error shutting down server", "error", err)
		}
	}()

	zlog.Infow("Server starting", "port", cfg.ServerPort, "env", cfg.ServerEnv)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		zlog.Errorw("Server stopped", "error", err)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config) {
	app.Get("/metrics", middleware.PrometheusHandler())

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/health", handlers.HealthCheck)
	app.Get("/v1/liveness", handlers.LivenessCheck)
	app.Get("/v1/readiness", handlers.ReadinessCheck(db))

	v1 := app.Group("/v1")

	leads := services.NewLeadService(services.NewGormLeadStore(db), nil)
	handlers.SetupLeadRoutes(v1.Group("/leads"), leads)

	contact := services.NewContactService(webhook.NewClient(cfg.ContactWebhookURL))
	handlers.SetupContactRoutes(v1.Group("/contact"), contact,
		middleware.RateLimit(cfg.ContactRatePerMinute, cfg.ContactRateBurst))

	// landing / search / contact pages
	app.Static("/", cfg.StaticDir)
}
