// Package providers contains dependency injection providers for the mediashelf gateway.
package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/mediashelf/internal/config"
	"github.com/listenupapp/mediashelf/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig(os.Args[1:])
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   !cfg.IsProduction(),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting mediashelf gateway",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"backend", cfg.Backend.Kind,
	)

	return log, nil
}
