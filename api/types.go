package api

import "github.com/GlintPay/gds/settings"

// SaveBody Request body for a settings update. Version is the one the client loaded.
type SaveBody struct {
	Settings settings.GlobalSettings `json:"settings"`
	Version  string                  `json:"version"`
}

type PermissionResponse struct {
	Allowed bool `json:"allowed"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
