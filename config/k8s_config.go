package config

const (
	DefaultSettingsConfigMapName = "kubernetes-dashboard-settings"
	DefaultSettingsNamespace     = "kubernetes-dashboard"
)

type K8sConfig struct {
	Order    int
	Disabled bool

	Kubeconfig      string `json:"kubeconfig"`      // Path to kubeconfig file (empty = in-cluster auth)
	Namespace       string `json:"namespace"`       // Namespace holding the settings ConfigMap
	ConfigMapName   string `json:"configMapName"`   // Name of the settings ConfigMap
	CreateIfMissing bool   `json:"createIfMissing"` // Create the ConfigMap with default settings on first load

	TimeoutMillis     int64 `json:"timeout"`
	RefreshRateMillis int64 `json:"refreshRate"` // Periodic cache refresh (0 = only on demand)
}

func (c K8sConfig) NamespaceOrDefault() string {
	if c.Namespace == "" {
		return DefaultSettingsNamespace
	}
	return c.Namespace
}

func (c K8sConfig) ConfigMapNameOrDefault() string {
	if c.ConfigMapName == "" {
		return DefaultSettingsConfigMapName
	}
	return c.ConfigMapName
}
