package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/listenupapp/mediashelf/internal/config"
	"github.com/listenupapp/mediashelf/internal/logger"
	"github.com/listenupapp/mediashelf/internal/mediastore"
	"github.com/listenupapp/mediashelf/internal/mediastore/hasura"
	"github.com/listenupapp/mediashelf/internal/mediastore/memory"
)

// ProvideMediaStore provides the configured media store backend.
func ProvideMediaStore(i do.Injector) (mediastore.MediaStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Backend.Kind {
	case config.BackendHasura:
		log.Info("Using Hasura backend", "endpoint", cfg.Backend.HasuraEndpoint)
		return hasura.New(hasura.Options{
			Endpoint:    cfg.Backend.HasuraEndpoint,
			AdminSecret: cfg.Backend.AdminSecret,
			Timeout:     cfg.Backend.Timeout,
			IDType:      cfg.Backend.IDType,
			Logger:      log.Component("hasura"),
		}), nil
	case config.BackendMemory:
		log.Warn("Using in-memory backend, data is lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend.Kind)
	}
}
