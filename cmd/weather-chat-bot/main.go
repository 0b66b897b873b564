package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-chat-bot/internal/api/http"
	"github.com/i474232898/weather-chat-bot/internal/config"
	"github.com/i474232898/weather-chat-bot/internal/dialog"
	"github.com/i474232898/weather-chat-bot/internal/dialog/clients"
	"github.com/i474232898/weather-chat-bot/internal/scheduler"
	"github.com/i474232898/weather-chat-bot/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	// Shared HTTP client for outbound collaborator calls. Calls are
	// single-attempt and bounded by this timeout.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Collaborators: NLU, forecast backend, historical backend.
	nlu := clients.NewNLUClient(httpClient, cfg.NLUBaseURL, cfg.NLUAppID, cfg.NLUSubKey)
	forecast := clients.NewForecastClient(httpClient, cfg.ForecastURL, cfg.GeocoderAPIKey)
	history := clients.NewHistoryClient(httpClient, cfg.HistoryURL)

	machine := dialog.NewMachine(nlu, forecast, history, slogger)

	// Conversation store: in-memory by default, redis when configured. The
	// memory store gets a background sweeper; redis expires idle
	// conversations natively.
	var convStore dialog.Store
	if cfg.StoreBackend == config.StoreRedis {
		redisStore := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ConversationTTL)
		defer redisStore.Close()
		convStore = redisStore
	} else {
		memStore := store.NewMemoryStore()
		sweeper := scheduler.New(memStore, cfg.SweepInterval, cfg.ConversationTTL, slogger)
		if err := sweeper.Start(); err != nil {
			log.Fatalf("failed to start conversation sweeper: %v", err)
		}
		defer sweeper.Stop()
		convStore = memStore
	}

	service := dialog.NewService(convStore, machine, slogger)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-chat-bot",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-chat-bot",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slogger.Error("fiber server stopped", "error", err)
		}
	}()
	slogger.Info("webhook server listening", "port", cfg.Port, "store", cfg.StoreBackend)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slogger.Error("error during shutdown", "error", err)
	}
}
