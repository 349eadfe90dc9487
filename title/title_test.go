package title

import (
	"testing"

	"github.com/GlintPay/gds/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplate(t *testing.T) {
	var titles []string
	u, err := New("", func(s string) { titles = append(titles, s) })
	require.NoError(t, err)

	assert.Equal(t, "", u.Current())

	u.Update(settings.GlobalSettings{})
	assert.Equal(t, "Kubernetes Dashboard", u.Current())

	u.Update(settings.GlobalSettings{ClusterName: " prod-eu "})
	assert.Equal(t, "prod-eu Dashboard", u.Current())

	assert.Equal(t, []string{"Kubernetes Dashboard", "prod-eu Dashboard"}, titles)
}

func TestCustomTemplate(t *testing.T) {
	u, err := New(`{{ .ClusterName | upper }} ({{ .DefaultNamespace }})`, nil)
	require.NoError(t, err)

	got, err := u.Render(settings.GlobalSettings{ClusterName: "staging", DefaultNamespace: "apps"})
	require.NoError(t, err)
	assert.Equal(t, "STAGING (apps)", got)
}

func TestBadTemplates(t *testing.T) {
	_, err := New(`{{ .ClusterName `, nil)
	assert.Error(t, err)

	u, err := New(`{{ .NoSuchField }}`, nil)
	require.NoError(t, err)

	u.Update(settings.GlobalSettings{ClusterName: "x"})
	assert.Equal(t, "", u.Current(), "failed renders leave the title alone")
}
