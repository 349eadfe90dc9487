package file

import (
	"context"
	"errors"
	"fmt"
	"github.com/GlintPay/gds/backend"
	"github.com/GlintPay/gds/config"
	"github.com/GlintPay/gds/filetypes"
	"github.com/GlintPay/gds/settings"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"
	"io/fs"
	"os"
)

func (s *Backend) Init(_ context.Context, appConfig config.ApplicationConfiguration) error {
	s.Config = appConfig.File
	s.Initial = appConfig.Defaults.InitialSettings()

	if s.Config.Path == "" {
		return errors.New("file backend: no path configured")
	}

	log.Debug().Msgf("Reading settings from %s", s.Config.Path)
	return nil
}

func (s *Backend) GetCurrentState(_ context.Context, refresh bool) (*backend.State, error) {
	if !refresh {
		s.mu.RLock()
		cached := s.cached
		s.mu.RUnlock()

		if cached != nil {
			return copyState(cached), nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refreshLocked()
}

func (s *Backend) Save(_ context.Context, req backend.SaveRequest) (*backend.State, error) {
	if s.Config.ReadOnly {
		return nil, backend.ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.refreshLocked()
	if err != nil {
		return nil, err
	}

	if !req.Force && req.Version != current.Version {
		log.Info().Msgf("Rejecting save at version [%s], file is at [%s]", req.Version, current.Version)
		return nil, settings.ErrConcurrentChange
	}

	updated := req.Settings.Normalized()
	if e := updated.Validate(); e != nil {
		return nil, e
	}

	bytes, err := filetypes.ToYaml(updated)
	if err != nil {
		return nil, err
	}

	if e := renameio.WriteFile(s.Config.Path, bytes, 0o644); e != nil {
		return nil, fmt.Errorf("file backend: write %s: %w", s.Config.Path, e)
	}

	s.cached = &backend.State{Version: filetypes.ContentVersion(bytes), Settings: updated}
	log.Info().Msgf("Saved settings to %s at version [%s]", s.Config.Path, s.cached.Version)

	return copyState(s.cached), nil
}

func (s *Backend) CanI(_ context.Context) (bool, error) {
	return !s.Config.ReadOnly, nil
}

func (s *Backend) Close() {
	// NOOP
}

func (s *Backend) refreshLocked() (*backend.State, error) {
	bytes, err := os.ReadFile(s.Config.Path)
	if errors.Is(err, fs.ErrNotExist) {
		// Nothing saved yet. The empty version is what the first save must present.
		s.cached = &backend.State{Version: "", Settings: s.Initial.Copy()}
		return copyState(s.cached), nil
	}
	if err != nil {
		return nil, fmt.Errorf("file backend: read %s: %w", s.Config.Path, err)
	}

	parsed, err := filetypes.FromYaml(bytes)
	if err != nil {
		return nil, err
	}

	s.cached = &backend.State{Version: filetypes.ContentVersion(bytes), Settings: parsed}
	return copyState(s.cached), nil
}

func copyState(st *backend.State) *backend.State {
	return &backend.State{Version: st.Version, Settings: st.Settings.Copy()}
}
