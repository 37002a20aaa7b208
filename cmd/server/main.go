package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bobby-s-dev/weather-planner/internal/config"
)

func main() {
	// Initialize logger
	logConfig := zap.NewProductionConfig()
	logger, _ := logConfig.Build()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if level, err := zapcore.ParseLevel(cfg.Server.LogLevel); err == nil {
		logConfig.Level.SetLevel(level)
	} else {
		logger.Warn("Invalid LOG_LEVEL, keeping info", zap.String("value", cfg.Server.LogLevel))
	}

	root := &cobra.Command{
		Use:   "planner",
		Short: "Weather-aware daily planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg, logger)
		},
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(cfg, logger), newEventsCmd(cfg, logger))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
