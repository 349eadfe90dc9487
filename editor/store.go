package editor

import (
	"sync"

	"github.com/GlintPay/gds/settings"
)

// Store Holds the settings as last loaded from the service
type Store struct {
	mu          sync.RWMutex
	snapshot    settings.Snapshot
	initialized bool
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Set(snapshot settings.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = settings.Snapshot{Settings: snapshot.Settings.Copy(), Version: snapshot.Version}
	s.initialized = true
}

func (s *Store) Get() settings.GlobalSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Settings.Copy()
}

func (s *Store) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Version
}

// Initialized Whether anything has been loaded yet
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Store) ClusterName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Settings.ClusterName
}

func (s *Store) ItemsPerPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Settings.ItemsPerPage
}

func (s *Store) LabelsLimit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Settings.LabelsLimit
}

func (s *Store) LogsAutoRefreshTimeInterval() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Settings.LogsAutoRefreshTimeInterval
}

func (s *Store) ResourceAutoRefreshTimeInterval() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Settings.ResourceAutoRefreshTimeInterval
}

func (s *Store) DisableAccessDeniedNotifications() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Settings.DisableAccessDeniedNotifications
}

func (s *Store) DefaultNamespace() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Settings.DefaultNamespace
}

func (s *Store) NamespaceFallbackList() []string {
	return s.Get().NamespaceFallbackList
}
