package filetypes

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"github.com/GlintPay/gds/settings"
	"sigs.k8s.io/yaml"
)

// FromYaml Accepts YAML or JSON, keyed by the settings' json names
func FromYaml(data []byte) (settings.GlobalSettings, error) {
	var s settings.GlobalSettings
	if e := yaml.UnmarshalStrict(data, &s); e != nil {
		return settings.GlobalSettings{}, fmt.Errorf("cannot parse settings: %w", e)
	}
	return s, nil
}

func ToYaml(s settings.GlobalSettings) ([]byte, error) {
	return yaml.Marshal(s)
}

// ContentVersion A stable version identifier for stored content
func ContentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
