package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/wichananm65/assoc-rules/internal/auth"
	"github.com/wichananm65/assoc-rules/internal/dataset"
	"github.com/wichananm65/assoc-rules/internal/infrastructure/config"
	"github.com/wichananm65/assoc-rules/internal/infrastructure/database/postgres"
	"github.com/wichananm65/assoc-rules/internal/infrastructure/logging"
	"github.com/wichananm65/assoc-rules/internal/rule"
	"github.com/wichananm65/assoc-rules/internal/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	repo, closeRepo := mustOpenRepository(cfg)
	defer closeRepo()

	datasets := dataset.NewService(repo, dataset.WithTTL(cfg.SessionTTL))
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go datasets.RunJanitor(ctx, purgeInterval)

	app := newApp(cfg, datasets, logger)

	logger.Info("starting server", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// purgeInterval is how often datasets idle for longer than the session TTL
// are dropped.
const purgeInterval = 5 * time.Minute

// newApp wires the page, the JSON API and their middleware around datasets.
func newApp(cfg config.Config, datasets *dataset.Service, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   web.Title,
		BodyLimit: cfg.MaxUploadBytes,
		Views:     web.NewViews(),
	})
	setupCORS(app, cfg.AllowOrigins)
	app.Use(logging.RequestLogger(logger))

	rules := rule.NewService(datasets)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	web.NewHandler(datasets, rules, web.NewSessionStore(cfg.SessionTTL)).RegisterRoutes(app)

	api := app.Group("/api/v1")
	if cfg.JWTSecret != "" {
		api.Use(auth.Middleware(cfg.JWTSecret))
	} else {
		logger.Warn("JWT_SECRET is not set, the API is open")
	}
	dataset.NewHandler(datasets).RegisterRoutes(api)
	rule.NewHandler(rules).RegisterRoutes(api)

	return app
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// mustOpenRepository stores datasets in Postgres when DATABASE_URL is set and
// in memory otherwise.
func mustOpenRepository(cfg config.Config) (dataset.Repository, func()) {
	if cfg.DatabaseURL == "" {
		slog.Info("DATABASE_URL is not set, datasets are kept in memory")
		return dataset.NewInMemoryRepository(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}
	if err := postgres.EnsureSchema(ctx, db, dataset.Schema, dataset.SchemaAccessedAt); err != nil {
		db.Close()
		panic(err)
	}
	return dataset.NewPostgresRepository(db), func() { closeDB(db) }
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Warn("close database", "error", err)
	}
}
