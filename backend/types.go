package backend

import (
	"context"
	"errors"
	"github.com/GlintPay/gds/config"
	"github.com/GlintPay/gds/settings"
)

var ErrForbidden = errors.New("not permitted to update settings")

type Backends []Backend

type Backend interface {
	Ordering
	Name() string
	Init(ctxt context.Context, config config.ApplicationConfiguration) error
	GetCurrentState(ctxt context.Context, refresh bool) (*State, error)
	Save(ctxt context.Context, req SaveRequest) (*State, error)
	CanI(ctxt context.Context) (bool, error)
	Close()
}

type Ordering interface {
	Order() int // lower is higher priority
}

// State What a backend currently holds. Version is opaque and changes on every write.
type State struct {
	Version  string
	Settings settings.GlobalSettings
}

func (s *State) Snapshot() settings.Snapshot {
	return settings.Snapshot{Settings: s.Settings.Copy(), Version: s.Version}
}

// SaveRequest Version must match the stored version unless Force is set
type SaveRequest struct {
	Settings settings.GlobalSettings
	Version  string
	Force    bool
}

// Primary Highest priority backend, or nil
func (bs Backends) Primary() Backend {
	if len(bs) == 0 {
		return nil
	}
	return bs[0]
}

func (bs Backends) Close() {
	for _, each := range bs {
		each.Close()
	}
}
