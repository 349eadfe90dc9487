package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/GlintPay/gds/settings"
	"github.com/rs/zerolog/log"
)

var (
	ErrClosed           = errors.New("settings editor closed")
	ErrPermissionDenied = errors.New("not permitted to edit global settings")
	ErrNotLoaded        = errors.New("settings were not loaded, nothing can be saved")
)

// Orchestrator Sequences loading, editing and saving the global settings.
// Operations are serialized; Close cancels whatever is in flight.
type Orchestrator struct {
	svc      Service
	store    *Store
	form     *Form
	notifier Notifier
	title    TitleUpdater
	dialog   ConflictDialog

	mu      sync.Mutex
	closed  bool
	loadErr atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

type Opt func(*Orchestrator)

func WithStore(store *Store) Opt {
	return func(o *Orchestrator) {
		o.store = store
	}
}

func WithForm(form *Form) Opt {
	return func(o *Orchestrator) {
		o.form = form
	}
}

func WithNotifier(n Notifier) Opt {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

func WithTitleUpdater(t TitleUpdater) Opt {
	return func(o *Orchestrator) {
		o.title = t
	}
}

func WithConflictDialog(d ConflictDialog) Opt {
	return func(o *Orchestrator) {
		o.dialog = d
	}
}

func NewOrchestrator(svc Service, opts ...Opt) *Orchestrator {
	o := &Orchestrator{
		svc:      svc,
		store:    NewStore(),
		notifier: noopNotifier{},
		title:    noopTitle{},
		dialog:   declineDialog{},
	}
	for _, optionFunc := range opts {
		optionFunc(o)
	}
	if o.form == nil {
		o.form = NewForm(nil)
	}

	o.ctx, o.cancel = context.WithCancel(context.Background())
	return o
}

func (o *Orchestrator) Form() *Form {
	return o.form
}

func (o *Orchestrator) Store() *Store {
	return o.store
}

// LoadError Whether the last load failed or was refused. Saving is blocked while set.
func (o *Orchestrator) LoadError() bool {
	return o.loadErr.Load()
}

// CanSave True when the edited values differ from the stored ones and loading succeeded
func (o *Orchestrator) CanSave() bool {
	if o.loadErr.Load() || !o.store.Initialized() {
		return false
	}
	return !o.form.Value().Equal(o.store.Get())
}

// Load Fetches permission and settings, then fills the form without notifying its listeners.
// Settings are still loaded for viewing when the permission check says no.
func (o *Orchestrator) Load(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}

	ctx, done := o.bind(ctx)
	defer done()

	return o.loadLocked(ctx)
}

// Reload Clears the form and helper state, then loads
func (o *Orchestrator) Reload(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}

	ctx, done := o.bind(ctx)
	defer done()

	return o.reloadLocked(ctx)
}

// Save Submits the edited settings. A concurrent change is offered to the user for overwriting;
// any other failure discards the edits and reloads. The returned error is only about the reload or cancellation,
// or ErrNotLoaded when the last load failed or was refused.
func (o *Orchestrator) Save(ctx context.Context) (Outcome, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return OutcomeDiscarded, ErrClosed
	}

	if o.loadErr.Load() || !o.store.Initialized() {
		return OutcomeDiscarded, ErrNotLoaded
	}

	ctx, done := o.bind(ctx)
	defer done()

	edited := o.form.Value()

	saved, err := o.svc.Save(ctx, edited, o.store.Version(), false)
	if err == nil {
		return OutcomeSaved, o.afterSaveLocked(ctx, saved)
	}
	if ctx.Err() != nil {
		return OutcomeDiscarded, ctx.Err()
	}

	if !settings.IsConcurrentChange(err) {
		log.Warn().Err(err).Msg("Settings not saved, reloading")
		return OutcomeDiscarded, o.reloadLocked(ctx)
	}

	confirmed, err := o.dialog.ConfirmOverwrite(ctx)
	if ctx.Err() != nil {
		return OutcomeDeclined, ctx.Err()
	}
	if err != nil {
		log.Warn().Err(err).Msg("Overwrite confirmation failed, treating as declined")
		confirmed = false
	}

	if !confirmed {
		log.Info().Msg("Overwrite declined, reloading")
		return OutcomeDeclined, o.reloadLocked(ctx)
	}

	saved, err = o.svc.Save(ctx, edited, o.store.Version(), true)
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeDiscarded, ctx.Err()
		}
		log.Warn().Err(err).Msg("Overwrite failed, reloading")
		return OutcomeDiscarded, o.reloadLocked(ctx)
	}

	log.Info().Msg("Overwrote concurrently changed settings")
	return OutcomeOverwritten, o.afterSaveLocked(ctx, saved)
}

// Close Cancels pending operations and detaches form listeners. Further calls fail with ErrClosed.
func (o *Orchestrator) Close() {
	o.cancel()

	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true
	o.form.detachAll()
}

func (o *Orchestrator) afterSaveLocked(ctx context.Context, saved settings.Snapshot) error {
	o.title.Update(saved.Settings)
	o.notifier.SettingsUpdated(saved.Settings)

	return o.loadLocked(ctx)
}

func (o *Orchestrator) reloadLocked(ctx context.Context) error {
	o.form.Reset()
	return o.loadLocked(ctx)
}

func (o *Orchestrator) loadLocked(ctx context.Context) error {
	allowed, err := o.svc.CanI(ctx)
	if err != nil {
		o.loadErr.Store(true)
		return fmt.Errorf("permission check failed: %w", err)
	}

	snapshot, err := o.svc.Load(ctx)
	if err != nil {
		o.loadErr.Store(true)
		return fmt.Errorf("cannot load settings: %w", err)
	}

	o.store.Set(snapshot)
	o.form.SetSilently(snapshot.Settings)

	if !allowed {
		o.loadErr.Store(true)
		return ErrPermissionDenied
	}

	o.loadErr.Store(false)
	log.Debug().Msgf("Loaded settings at version [%s]", snapshot.Version)
	return nil
}

func (o *Orchestrator) bind(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(o.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
