package editor

import (
	"context"

	"github.com/GlintPay/gds/settings"
)

// Service Reads and writes the stored settings. client.Client is the HTTP implementation.
type Service interface {
	Load(ctx context.Context) (settings.Snapshot, error)
	Save(ctx context.Context, s settings.GlobalSettings, version string, force bool) (settings.Snapshot, error)
	CanI(ctx context.Context) (bool, error)
}

// Notifier Broadcasts that the global settings were updated
type Notifier interface {
	SettingsUpdated(s settings.GlobalSettings)
}

// TitleUpdater Refreshes whatever displays the cluster name
type TitleUpdater interface {
	Update(s settings.GlobalSettings)
}

// ConflictDialog Asks the user whether to overwrite settings someone else changed
type ConflictDialog interface {
	ConfirmOverwrite(ctx context.Context) (bool, error)
}

type Outcome int

const (
	OutcomeSaved Outcome = iota
	OutcomeOverwritten
	OutcomeDeclined
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeOverwritten:
		return "overwritten"
	case OutcomeDeclined:
		return "declined"
	case OutcomeDiscarded:
		return "discarded"
	}
	return "unknown"
}

type noopNotifier struct{}

func (noopNotifier) SettingsUpdated(settings.GlobalSettings) {}

type noopTitle struct{}

func (noopTitle) Update(settings.GlobalSettings) {}

type declineDialog struct{}

func (declineDialog) ConfirmOverwrite(context.Context) (bool, error) { return false, nil }
