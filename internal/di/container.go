// Package di provides dependency injection configuration for the mediashelf gateway.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/mediashelf/internal/config"
	"github.com/listenupapp/mediashelf/internal/di/providers"
	"github.com/listenupapp/mediashelf/internal/logger"
	"github.com/listenupapp/mediashelf/internal/mediastore"
	"github.com/listenupapp/mediashelf/internal/service"
	"github.com/listenupapp/mediashelf/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// Configuration is loaded from flags, env and .env.
func NewContainer() *do.RootScope {
	injector := do.New()
	do.Provide(injector, providers.ProvideConfig)
	registerProviders(injector)
	return injector
}

// NewContainerWithConfig creates a container around an already loaded config.
func NewContainerWithConfig(cfg *config.Config) *do.RootScope {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	registerProviders(injector)
	return injector
}

func registerProviders(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideLogger)

	// Backend
	do.Provide(injector, providers.ProvideMediaStore)

	// Business services
	do.Provide(injector, providers.ProvidePayloadValidator)
	do.Provide(injector, providers.ProvideActionService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMetricsServer)
}

// Bootstrap initializes all services and starts the listeners.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[mediastore.MediaStore](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*validation.PayloadValidator](injector)
	_ = do.MustInvoke[*service.ActionService](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.MetricsServerHandle](injector); err != nil {
		return err
	}
	return nil
}
