package k8s

import (
	"sync"

	"codnect.io/chrono"
	"github.com/GlintPay/gds/backend"
	"github.com/GlintPay/gds/config"
	"github.com/GlintPay/gds/settings"
	"k8s.io/client-go/kubernetes"
)

// SettingsKey ConfigMap data key holding the JSON-encoded global settings
const SettingsKey = "_global"

type Backend struct {
	Config      config.K8sConfig
	Initial     settings.GlobalSettings
	EnableTrace bool

	// Clientset is built from Config during Init unless already set
	Clientset kubernetes.Interface

	mu      sync.RWMutex
	cached  *backend.State
	refresh chrono.ScheduledTask
}

func (s *Backend) Order() int {
	return s.Config.Order
}

func (s *Backend) Name() string {
	return "k8s"
}
