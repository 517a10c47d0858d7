package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	httpapi "github.com/eirae-io/eirae-server/internal/api/http"
	"github.com/eirae-io/eirae-server/internal/config"
	"github.com/eirae-io/eirae-server/internal/store"
	"github.com/eirae-io/eirae-server/internal/views"
	"github.com/eirae-io/eirae-server/internal/weather"
	"github.com/eirae-io/eirae-server/internal/zone"
)

const appName = "eirae-server"

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	log.Info("starting",
		"app", appName,
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"sqlite_path", cfg.SQLitePath,
	)

	db, err := store.Open(cfg.SQLitePath)
	if err != nil {
		log.Error("open database failed", "error", err)
		os.Exit(1)
	}

	st := store.New(db)
	if cfg.SeedDemoSensors {
		if err := st.SeedDemoSensors(context.Background()); err != nil {
			log.Error("seed demo sensors failed", "error", err)
			os.Exit(1)
		}
	}

	weatherClient := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, log)
	zones := zone.NewService(st, weatherClient)

	engine, err := views.Engine()
	if err != nil {
		log.Error("load templates failed", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		Views:                 engine,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Map data waits on one upstream weather call per sensor.
		WriteTimeout: 30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	httpapi.RegisterRoutes(app, st, zones, log)
	httpapi.RegisterPages(app)
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       views.Static(),
		PathPrefix: "static",
	}))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("close database failed", "error", err)
		}
	}
}

func newLogger(cfg *config.AppConfig) *slog.Logger {
	if cfg.AppEnv == "dev" {
		h := tint.NewHandler(os.Stdout, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With("app", appName, "env", cfg.AppEnv)
}
