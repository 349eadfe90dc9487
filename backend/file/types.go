package file

import (
	"sync"

	"github.com/GlintPay/gds/backend"
	"github.com/GlintPay/gds/config"
	"github.com/GlintPay/gds/settings"
)

type Backend struct {
	Config  config.FileConfig
	Initial settings.GlobalSettings

	mu     sync.RWMutex
	cached *backend.State
}

func (s *Backend) Order() int {
	return s.Config.Order
}

func (s *Backend) Name() string {
	return "file"
}
