package config

import "github.com/GlintPay/gds/settings"

type Configuration struct {
	ApplicationConfigFileYmlPath string `env:"APP_CONFIG_FILE_YML_PATH" envDefault:"application.yml"`
}

// ApplicationConfiguration Must use full names for `sigs.k8s.io/yaml`
type ApplicationConfiguration struct {
	Server     Server
	Prometheus Prometheus
	File       FileConfig
	K8s        K8sConfig
	Defaults   Defaults
	Tracing    Tracing
}

type Defaults struct {
	Settings        settings.GlobalSettings `json:"settings"`
	LogResponses    bool                    `json:"logResponses"`
	PrettyPrintJson bool                    `json:"prettyPrintJson"`
}

// InitialSettings Settings used when nothing has been stored yet: configured values, with gaps filled from built-in defaults
func (d Defaults) InitialSettings() settings.GlobalSettings {
	return d.Settings.WithDefaults().Normalized()
}

type Server struct {
	Port int
}

type Tracing struct {
	Enabled         bool
	Endpoint        string
	SamplerFraction float64
}

type Prometheus struct {
	Path string
}

type FileConfig struct {
	Order    int
	Disabled bool

	Path     string `json:"path"`
	ReadOnly bool   `json:"readOnly"`
}
