package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SettingsLoads counts settings reads by result (ok|error).
	SettingsLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gds_settings_loads_total",
			Help: "Total number of global settings loads",
		},
		[]string{"result"},
	)

	// SettingsSaves counts settings writes by result (ok|conflict|invalid|forbidden|error) and whether they were forced.
	SettingsSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gds_settings_saves_total",
			Help: "Total number of global settings saves",
		},
		[]string{"result", "forced"},
	)
)
