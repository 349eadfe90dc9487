package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GlintPay/gds/backend"
	"github.com/GlintPay/gds/config"
	"github.com/GlintPay/gds/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, readOnly bool) *Backend {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	b := &Backend{}
	require.NoError(t, b.Init(context.Background(), config.ApplicationConfiguration{
		File: config.FileConfig{Path: path, ReadOnly: readOnly},
		Defaults: config.Defaults{
			Settings: settings.GlobalSettings{ClusterName: "local"},
		},
	}))
	return b
}

func TestInitRequiresPath(t *testing.T) {
	b := &Backend{}
	assert.Error(t, b.Init(context.Background(), config.ApplicationConfiguration{}))
}

func TestMissingFileServesInitialSettings(t *testing.T) {
	b := newBackend(t, false)

	st, err := b.GetCurrentState(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, "", st.Version)
	assert.Equal(t, "local", st.Settings.ClusterName)
	assert.Equal(t, settings.DefaultItemsPerPage, st.Settings.ItemsPerPage)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, false)

	st, err := b.GetCurrentState(ctx, true)
	require.NoError(t, err)

	edited := st.Settings.Copy()
	edited.ItemsPerPage = 42
	edited.NamespaceFallbackList = []string{"apps", "apps", "default"}

	saved, err := b.Save(ctx, backend.SaveRequest{Settings: edited, Version: st.Version})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.Version)
	assert.Equal(t, []string{"apps", "default"}, saved.Settings.NamespaceFallbackList)

	reloaded, err := b.GetCurrentState(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, saved.Version, reloaded.Version)
	assert.Equal(t, 42, reloaded.Settings.ItemsPerPage)
}

func TestStaleVersionIsRejected(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, false)

	first, err := b.Save(ctx, backend.SaveRequest{Settings: settings.Defaults(), Version: ""})
	require.NoError(t, err)

	// someone else edits the file
	require.NoError(t, os.WriteFile(b.Config.Path, []byte("clusterName: elsewhere\nitemsPerPage: 5\nlabelsLimit: 1\ndefaultNamespace: default\n"), 0o644))

	_, err = b.Save(ctx, backend.SaveRequest{Settings: settings.Defaults(), Version: first.Version})
	require.Error(t, err)
	assert.True(t, settings.IsConcurrentChange(err))

	forced, err := b.Save(ctx, backend.SaveRequest{Settings: settings.Defaults(), Version: first.Version, Force: true})
	require.NoError(t, err)
	assert.Equal(t, first.Version, forced.Version)
}

func TestInvalidSettingsAreNotWritten(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, false)

	bad := settings.Defaults()
	bad.LabelsLimit = 0

	_, err := b.Save(ctx, backend.SaveRequest{Settings: bad})
	var ve *settings.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, statErr := os.Stat(b.Config.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, true)

	allowed, err := b.CanI(ctx)
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = b.Save(ctx, backend.SaveRequest{Settings: settings.Defaults()})
	assert.ErrorIs(t, err, backend.ErrForbidden)
}

func TestCachedStateIsACopy(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t, false)

	st, err := b.GetCurrentState(ctx, true)
	require.NoError(t, err)
	st.Settings.NamespaceFallbackList[0] = "mutated"

	cached, err := b.GetCurrentState(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, cached.Settings.NamespaceFallbackList)
}
