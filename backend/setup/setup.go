package setup

import (
	"context"
	"errors"
	"github.com/GlintPay/gds/backend"
	"github.com/GlintPay/gds/backend/file"
	"github.com/GlintPay/gds/backend/k8s"
	"github.com/GlintPay/gds/config"
	"github.com/rs/zerolog/log"
)

var ErrNoBackends = errors.New("no settings backend enabled")

// Init Returns the enabled backends, highest priority first
func Init(ctx context.Context, appConfig config.ApplicationConfiguration) (backend.Backends, error) {
	var backends backend.Backends

	if appConfig.K8s.Disabled {
		log.Info().Msg("K8s backend is disabled")
	} else {
		log.Info().Msg("Enabling K8s backend")
		backends = append(backends, &k8s.Backend{})
	}

	if appConfig.File.Disabled {
		log.Info().Msg("File backend is disabled")
	} else {
		log.Info().Msg("Enabling File backend")
		backends = append(backends, &file.Backend{})
	}

	if len(backends) == 0 {
		return nil, ErrNoBackends
	}

	for _, each := range backends {
		if backendErr := each.Init(ctx, appConfig); backendErr != nil {
			backends.Close()
			return nil, backendErr
		}
	}

	backends.SortByOrder()
	return backends, nil
}
