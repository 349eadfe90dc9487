package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/GlintPay/gds/backend"
	"github.com/GlintPay/gds/config"
	"github.com/GlintPay/gds/settings"
	"github.com/go-chi/chi/v5"
	"github.com/riandyrn/otelchi"
	"github.com/rs/zerolog/log"
	"net/http"
	"strconv"
	"strings"
)

const (
	applicationJSON = "application/json"

	SettingsPath = "/api/v1/settings/global"
)

var errBadRequest = errors.New("bad request")

type Routing struct {
	ServerName   string
	ParentRouter chi.Router

	AppConfig config.ApplicationConfiguration
	Backends  backend.Backends
}

func (rtr *Routing) SetupFunctionalRoutes(r chi.Router) error {
	if e := rtr.enableOTelForRouter(r); e != nil {
		return e
	}

	if rtr.Backends.Primary() == nil {
		return errors.New("no backend configured")
	}

	r.Get(SettingsPath, rtr.loadHandler())
	r.Put(SettingsPath, rtr.saveHandler())
	r.Get(SettingsPath+"/cani", rtr.canIHandler())
	r.Get(SettingsPath+"/defaults", rtr.defaultsHandler())

	return nil
}

func (rtr *Routing) loadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queries := r.URL.Query()

		state, err := rtr.Backends.Primary().GetCurrentState(r.Context(), !queries.Has("norefresh"))
		if err != nil {
			SettingsLoads.WithLabelValues("error").Inc()
			rtr.writeError(w, err)
			return
		}
		SettingsLoads.WithLabelValues("ok").Inc()

		rtr.writeJson(w, r, state.Snapshot())
	}
}

func (rtr *Routing) saveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		force := overrideBooleanDefault(r.URL.Query().Get("force"), false)

		var body SaveBody
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if e := dec.Decode(&body); e != nil {
			SettingsSaves.WithLabelValues("invalid", strconv.FormatBool(force)).Inc()
			rtr.writeError(w, fmt.Errorf("%w: %v", errBadRequest, e))
			return
		}

		state, err := rtr.Backends.Primary().Save(r.Context(), backend.SaveRequest{
			Settings: body.Settings,
			Version:  body.Version,
			Force:    force,
		})

		SettingsSaves.WithLabelValues(saveResult(err), strconv.FormatBool(force)).Inc()
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		rtr.writeJson(w, r, state.Snapshot())
	}
}

func (rtr *Routing) canIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed, err := rtr.Backends.Primary().CanI(r.Context())
		if err != nil {
			rtr.writeError(w, err)
			return
		}
		rtr.writeJson(w, r, PermissionResponse{Allowed: allowed})
	}
}

func (rtr *Routing) defaultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rtr.writeJson(w, r, rtr.AppConfig.Defaults.InitialSettings())
	}
}

func (rtr *Routing) writeJson(w http.ResponseWriter, r *http.Request, val any) {
	pretty := overrideBooleanDefault(r.URL.Query().Get("pretty"), rtr.AppConfig.Defaults.PrettyPrintJson)

	bytes, err := marshalResponseJson(val, pretty)
	if err != nil {
		rtr.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", applicationJSON)
	_, _ = w.Write(bytes)

	if rtr.AppConfig.Defaults.LogResponses {
		log.Debug().Msgf("Response: %s", string(bytes))
	}
}

func marshalResponseJson(val interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(val, "", "  ")
	}
	return json.Marshal(val)
}

func (rtr *Routing) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	w.Header().Set("Content-Type", applicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Message: err.Error()})

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Stack().Msg("Response error")
	} else {
		log.Info().Err(err).Int("status", status).Msg("Request rejected")
	}
}

func statusFor(err error) int {
	var validationErr *settings.ValidationError
	switch {
	case errors.Is(err, settings.ErrConcurrentChange):
		return http.StatusConflict
	case errors.Is(err, backend.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errBadRequest), errors.As(err, &validationErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func saveResult(err error) string {
	if err == nil {
		return "ok"
	}
	switch statusFor(err) {
	case http.StatusConflict:
		return "conflict"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusBadRequest:
		return "invalid"
	}
	return "error"
}

func (rtr *Routing) enableOTelForRouter(r chi.Router) error {
	if !rtr.AppConfig.Tracing.Enabled {
		return nil
	}

	if rtr.ServerName == "" || rtr.ParentRouter == nil {
		return errors.New("OTel not configured")
	}

	r.Use(otelchi.Middleware(rtr.ServerName, otelchi.WithChiRoutes(rtr.ParentRouter)))

	log.Info().Msgf("OpenTelemetry trace is enabled")
	return nil
}

func overrideBooleanDefault(queryValue string, defaultVal bool) bool {
	reqVal := strings.ToLower(queryValue)
	if reqVal == "true" {
		return true
	} else if reqVal == "false" {
		return false
	}
	return defaultVal
}
