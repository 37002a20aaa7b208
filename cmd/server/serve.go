package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-planner/internal/api"
	"github.com/bobby-s-dev/weather-planner/internal/config"
	"github.com/bobby-s-dev/weather-planner/internal/models"
	"github.com/bobby-s-dev/weather-planner/internal/scheduler"
	"github.com/bobby-s-dev/weather-planner/internal/services"
	"github.com/bobby-s-dev/weather-planner/internal/store"
	"github.com/bobby-s-dev/weather-planner/pkg/client"
)

func newServeCmd(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner page and API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg, logger)
		},
	}
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting Weather Planner",
		zap.String("location_mode", cfg.Location.Mode),
		zap.String("store_backend", cfg.Store.Backend))

	kv, closer, err := store.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()
	events := store.NewEventStore(kv, cfg.Store.Key, logger)

	clientConfig := client.ClientConfig{
		Timeout:        cfg.HTTP.Timeout,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}
	weatherClient := client.NewOpenWeatherClient(client.OpenWeatherOptions{
		APIKey:       cfg.WeatherAPI.OpenWeatherAPIKey,
		BaseURL:      cfg.WeatherAPI.OpenWeatherURL,
		GeocodingURL: cfg.WeatherAPI.GeocodingURL,
		Lang:         cfg.WeatherAPI.Lang,
	}, clientConfig, logger)
	assistantClient := client.NewAssistantClient(client.AssistantOptions{
		APIKey:  cfg.Assistant.APIKey,
		BaseURL: cfg.Assistant.BaseURL,
		Model:   cfg.Assistant.Model,
	}, clientConfig, logger)

	if cfg.WeatherAPI.OpenWeatherAPIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY is not set, weather will be unavailable")
	}
	if cfg.Assistant.APIKey == "" {
		logger.Warn("OPENROUTER_API_KEY is not set, suggestions will fall back")
	}

	plannerOpts := services.PlannerOptions{}
	handlerOpts := api.HandlerOptions{}
	if cfg.FixedLocation() {
		coord := models.Coordinate{
			Latitude:  cfg.Location.DefaultLatitude,
			Longitude: cfg.Location.DefaultLongitude,
		}
		plannerOpts.FixedPlaceName = cfg.Location.DefaultPlaceName
		handlerOpts.FixedCoordinate = &coord
	}
	planner := services.NewPlanner(weatherClient, assistantClient, events, plannerOpts, logger)

	// Initialize scheduler
	refreshScheduler := scheduler.NewScheduler(planner, cfg.Scheduler.RefreshCron, logger)
	handlerOpts.Scheduler = refreshScheduler

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          api.ErrorHandler,
		DisableStartupMessage: true,
	})

	// Setup handlers and routes
	handler := api.NewHandler(planner, weatherClient, assistantClient, handlerOpts, logger)
	api.SetupRoutes(app, handler, logger)

	// Start scheduler
	if err := refreshScheduler.Start(); err != nil {
		return err
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop scheduler
	refreshScheduler.Stop()

	// Shutdown Fiber app
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
	return nil
}
