package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/mediashelf/internal/config"
	"github.com/listenupapp/mediashelf/internal/logger"
	"github.com/listenupapp/mediashelf/internal/mediastore"
	"github.com/listenupapp/mediashelf/internal/service"
	"github.com/listenupapp/mediashelf/internal/validation"
)

// ProvidePayloadValidator provides the action payload validator.
func ProvidePayloadValidator(i do.Injector) (*validation.PayloadValidator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return validation.NewPayloadValidator(cfg.Auth.Key), nil
}

// ProvideActionService provides the action dispatcher.
func ProvideActionService(i do.Injector) (*service.ActionService, error) {
	store := do.MustInvoke[mediastore.MediaStore](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewActionService(store, log.Component("actions")), nil
}
