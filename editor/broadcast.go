package editor

import (
	"sync"

	"github.com/GlintPay/gds/settings"
	"github.com/rs/zerolog/log"
)

// Broadcaster Fans "settings updated" out to subscribers. Slow subscribers miss updates rather than block the sender.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan settings.GlobalSettings
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: map[int]chan settings.GlobalSettings{}}
}

func (b *Broadcaster) Subscribe(buffer int) (<-chan settings.GlobalSettings, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan settings.GlobalSettings, buffer)
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *Broadcaster) SettingsUpdated(s settings.GlobalSettings) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- s.Copy():
		default:
			log.Debug().Int("subscriber", id).Msg("Subscriber busy, dropping settings update")
		}
	}
}
