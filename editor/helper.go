package editor

import (
	"sync"

	"github.com/GlintPay/gds/settings"
)

// Helper Live view of the values being edited, for code that needs them before they are saved
type Helper struct {
	mu       sync.RWMutex
	settings settings.GlobalSettings
}

func NewHelper() *Helper {
	return &Helper{}
}

func (h *Helper) Settings() settings.GlobalSettings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings.Copy()
}

func (h *Helper) DefaultNamespace() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings.DefaultNamespace
}

func (h *Helper) NamespaceFallbackList() []string {
	return h.Settings().NamespaceFallbackList
}

func (h *Helper) mirror(s settings.GlobalSettings) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.settings = s.Copy()
}
