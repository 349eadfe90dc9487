package settings

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   GlobalSettings
		want GlobalSettings
	}{
		{
			name: "trims and dedupes",
			in: GlobalSettings{
				ClusterName:           "  prod-eu ",
				DefaultNamespace:      " kube-system",
				NamespaceFallbackList: []string{"b", " a", "b", "", "a ", "c"},
			},
			want: GlobalSettings{
				ClusterName:           "prod-eu",
				DefaultNamespace:      "kube-system",
				NamespaceFallbackList: []string{"b", "a", "c"},
			},
		},
		{
			name: "nil list stays nil",
			in:   GlobalSettings{},
			want: GlobalSettings{},
		},
		{
			name: "blank list becomes empty",
			in:   GlobalSettings{NamespaceFallbackList: []string{" ", ""}},
			want: GlobalSettings{NamespaceFallbackList: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalized())
		})
	}
}

func TestCopyDoesNotShareList(t *testing.T) {
	orig := Defaults()
	c := orig.Copy()
	c.NamespaceFallbackList[0] = "other"

	assert.Equal(t, []string{"default"}, orig.NamespaceFallbackList)
	assert.False(t, orig.Equal(c))
}

func TestWithDefaults(t *testing.T) {
	got := GlobalSettings{ClusterName: "x", LogsAutoRefreshTimeInterval: 0, ItemsPerPage: 25}.WithDefaults()

	assert.Equal(t, "x", got.ClusterName)
	assert.Equal(t, 25, got.ItemsPerPage)
	assert.Equal(t, DefaultLabelsLimit, got.LabelsLimit)
	assert.Equal(t, 0, got.LogsAutoRefreshTimeInterval)
	assert.Equal(t, DefaultNamespace, got.DefaultNamespace)
	assert.Equal(t, []string{DefaultNamespace}, got.NamespaceFallbackList)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Defaults().Validate())

	bad := Defaults()
	bad.ItemsPerPage = 0
	bad.ResourceAutoRefreshTimeInterval = -1
	bad.NamespaceFallbackList = []string{"ok", "Not_OK"}

	err := bad.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "itemsPerPage", ve.Field)

	assert.Contains(t, err.Error(), "resourceAutoRefreshTimeInterval")
	assert.Contains(t, err.Error(), "namespaceFallbackList[1]")
	assert.NotContains(t, err.Error(), "namespaceFallbackList[0]")
}

func TestValidateEmptyDefaultNamespace(t *testing.T) {
	s := Defaults()
	s.DefaultNamespace = ""
	assert.ErrorContains(t, s.Validate(), "defaultNamespace")
}

func TestIsConcurrentChange(t *testing.T) {
	assert.False(t, IsConcurrentChange(nil))
	assert.False(t, IsConcurrentChange(errors.New("boom")))
	assert.True(t, IsConcurrentChange(ErrConcurrentChange))
	assert.True(t, IsConcurrentChange(fmt.Errorf("save: %w", ErrConcurrentChange)))
	assert.True(t, IsConcurrentChange(errors.New("409 Conflict: settings changed since last reload")))
}
