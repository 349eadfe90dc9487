package settings

import (
	"reflect"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

const (
	DefaultItemsPerPage        = 10
	DefaultLabelsLimit         = 3
	DefaultAutoRefreshInterval = 5
	DefaultNamespace           = "default"
)

// GlobalSettings are the cluster-wide dashboard settings. Field names follow the dashboard's wire format.
type GlobalSettings struct {
	ClusterName                      string   `json:"clusterName" mapstructure:"clusterName"`
	ItemsPerPage                     int      `json:"itemsPerPage" mapstructure:"itemsPerPage"`
	LabelsLimit                      int      `json:"labelsLimit" mapstructure:"labelsLimit"`
	LogsAutoRefreshTimeInterval      int      `json:"logsAutoRefreshTimeInterval" mapstructure:"logsAutoRefreshTimeInterval"`
	ResourceAutoRefreshTimeInterval  int      `json:"resourceAutoRefreshTimeInterval" mapstructure:"resourceAutoRefreshTimeInterval"`
	DisableAccessDeniedNotifications bool     `json:"disableAccessDeniedNotifications" mapstructure:"disableAccessDeniedNotifications"`
	DefaultNamespace                 string   `json:"defaultNamespace" mapstructure:"defaultNamespace"`
	NamespaceFallbackList            []string `json:"namespaceFallbackList" mapstructure:"namespaceFallbackList"`
}

// Snapshot is a set of settings together with the backend version they were read at
type Snapshot struct {
	Settings GlobalSettings `json:"settings"`
	Version  string         `json:"version"`
}

func Defaults() GlobalSettings {
	return GlobalSettings{
		ItemsPerPage:                    DefaultItemsPerPage,
		LabelsLimit:                     DefaultLabelsLimit,
		LogsAutoRefreshTimeInterval:     DefaultAutoRefreshInterval,
		ResourceAutoRefreshTimeInterval: DefaultAutoRefreshInterval,
		DefaultNamespace:                DefaultNamespace,
		NamespaceFallbackList:           []string{DefaultNamespace},
	}
}

// Copy returns a deep copy, so that callers never share the fallback list backing array
func (s GlobalSettings) Copy() GlobalSettings {
	c := s
	if s.NamespaceFallbackList != nil {
		c.NamespaceFallbackList = make([]string, len(s.NamespaceFallbackList))
		copy(c.NamespaceFallbackList, s.NamespaceFallbackList)
	}
	return c
}

func (s GlobalSettings) Equal(other GlobalSettings) bool {
	return reflect.DeepEqual(s, other)
}

// Normalized trims string values and removes blank or repeated fallback namespaces, keeping first-seen order
func (s GlobalSettings) Normalized() GlobalSettings {
	n := s.Copy()
	n.ClusterName = strings.TrimSpace(n.ClusterName)
	n.DefaultNamespace = strings.TrimSpace(n.DefaultNamespace)
	n.NamespaceFallbackList = dedupeNamespaces(n.NamespaceFallbackList)
	return n
}

// WithDefaults fills unset fields from Defaults(). Zero refresh intervals are meaningful and are left alone.
func (s GlobalSettings) WithDefaults() GlobalSettings {
	d := Defaults()
	n := s.Copy()
	if n.ItemsPerPage == 0 {
		n.ItemsPerPage = d.ItemsPerPage
	}
	if n.LabelsLimit == 0 {
		n.LabelsLimit = d.LabelsLimit
	}
	if n.DefaultNamespace == "" {
		n.DefaultNamespace = d.DefaultNamespace
	}
	if len(n.NamespaceFallbackList) == 0 {
		n.NamespaceFallbackList = d.NamespaceFallbackList
	}
	return n
}

func dedupeNamespaces(namespaces []string) []string {
	if namespaces == nil {
		return nil
	}

	seen := linkedhashset.New()
	for _, each := range namespaces {
		trimmed := strings.TrimSpace(each)
		if trimmed != "" {
			seen.Add(trimmed)
		}
	}

	result := make([]string, 0, seen.Size())
	for _, v := range seen.Values() {
		result = append(result, v.(string))
	}
	return result
}
