package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GlintPay/gds/backend"
	"github.com/GlintPay/gds/backend/file"
	"github.com/GlintPay/gds/config"
	"github.com/GlintPay/gds/settings"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

var traceServerName = fmt.Sprintf("server-%d", rand.Int())

const defaultsJson = `{"clusterName":"","itemsPerPage":10,"labelsLimit":3,"logsAutoRefreshTimeInterval":5,"resourceAutoRefreshTimeInterval":5,"disableAccessDeniedNotifications":false,"defaultNamespace":"default","namespaceFallbackList":["default"]}`

func Test_routesLoadAndSave(t *testing.T) {
	router, _ := setUpRouter(t, false, false)

	edited := `{"clusterName":"prod","itemsPerPage":20,"labelsLimit":3,"logsAutoRefreshTimeInterval":5,"resourceAutoRefreshTimeInterval":5,"disableAccessDeniedNotifications":false,"defaultNamespace":"default","namespaceFallbackList":["default","apps","default"]}`
	normalized := `{"clusterName":"prod","itemsPerPage":20,"labelsLimit":3,"logsAutoRefreshTimeInterval":5,"resourceAutoRefreshTimeInterval":5,"disableAccessDeniedNotifications":false,"defaultNamespace":"default","namespaceFallbackList":["default","apps"]}`

	validateRequest(t, ExampleRequest{
		method:     "GET",
		url:        SettingsPath,
		statusCode: 200,
		jsonOutput: `{"settings":` + defaultsJson + `,"version":""}`,
	}, router)

	saved := validateRequest(t, ExampleRequest{
		method:     "PUT",
		url:        SettingsPath,
		body:       saveBody(edited, ""),
		statusCode: 200,
	}, router)
	snapshot := decodeSnapshot(t, saved)
	assert.NotEmpty(t, snapshot.Version)
	assert.Equal(t, []string{"default", "apps"}, snapshot.Settings.NamespaceFallbackList)

	validateRequest(t, ExampleRequest{
		method:     "GET",
		url:        SettingsPath + "?norefresh",
		statusCode: 200,
		jsonOutput: `{"settings":` + normalized + `,"version":"` + snapshot.Version + `"}`,
	}, router)

	// the version we presented is now stale
	validateRequest(t, ExampleRequest{
		method:     "PUT",
		url:        SettingsPath,
		body:       saveBody(defaultsJson, ""),
		statusCode: 409,
		jsonOutput: `{"message":"settings changed since last reload"}`,
	}, router)

	validateRequest(t, ExampleRequest{
		method:     "PUT",
		url:        SettingsPath + "?force=true",
		body:       saveBody(defaultsJson, ""),
		statusCode: 200,
	}, router)

	validateRequest(t, ExampleRequest{
		method:     "GET",
		url:        SettingsPath,
		statusCode: 200,
		jsonOutputContains: `"settings":` + defaultsJson,
	}, router)
}

func Test_routesRejections(t *testing.T) {
	router, _ := setUpRouter(t, false, false)

	tests := []ExampleRequest{
		{
			method:     "GET",
			url:        "/xxxxx",
			statusCode: 404,
		},
		{
			method:             "PUT",
			url:                SettingsPath,
			body:               strings.NewReader(`{"settings":`),
			statusCode:         400,
			jsonOutputContains: "bad request",
		},
		{
			method:             "PUT",
			url:                SettingsPath,
			body:               saveBody(`{"itemsPerPage":0,"labelsLimit":1,"defaultNamespace":"default"}`, ""),
			statusCode:         400,
			jsonOutputContains: "invalid value for itemsPerPage",
		},
		{
			method:             "PUT",
			url:                SettingsPath,
			body:               saveBody(`{"itemsPerPag":25}`, ""),
			statusCode:         400,
			jsonOutputContains: "unknown field",
		},
		{
			method:     "GET",
			url:        SettingsPath + "/cani",
			statusCode: 200,
			jsonOutput: `{"allowed":true}`,
		},
		{
			method:     "GET",
			url:        SettingsPath + "/defaults",
			statusCode: 200,
			jsonOutput: defaultsJson,
		},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			validateRequest(t, tt, router)
		})
	}
}

func Test_routesReadOnly(t *testing.T) {
	router, _ := setUpRouter(t, true, false)

	validateRequest(t, ExampleRequest{
		method:     "GET",
		url:        SettingsPath + "/cani",
		statusCode: 200,
		jsonOutput: `{"allowed":false}`,
	}, router)

	validateRequest(t, ExampleRequest{
		method:     "PUT",
		url:        SettingsPath,
		body:       saveBody(defaultsJson, ""),
		statusCode: 403,
		jsonOutput: `{"message":"not permitted to update settings"}`,
	}, router)
}

func Test_routesPrettyPrint(t *testing.T) {
	router, _ := setUpRouter(t, false, false)

	body := validateRequest(t, ExampleRequest{
		method:     "GET",
		url:        SettingsPath + "/cani?pretty=true",
		statusCode: 200,
	}, router)
	assert.Equal(t, "{\n  \"allowed\": true\n}", body)
}

func Test_routesTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider()
	tracerProvider.RegisterSpanProcessor(sr)
	otel.SetTracerProvider(tracerProvider)

	router, _ := setUpRouter(t, false, true)

	validateRequest(t, ExampleRequest{
		method:     "GET",
		url:        SettingsPath + "/cani",
		statusCode: 200,
		jsonOutput: `{"allowed":true}`,
	}, router)

	require.Len(t, sr.Ended(), 1)
	span := sr.Ended()[0]
	assert.Equal(t, SettingsPath+"/cani", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())
}

func Test_statusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("wrapped: %w", settings.ErrConcurrentChange)))
	assert.Equal(t, http.StatusForbidden, statusFor(backend.ErrForbidden))
	assert.Equal(t, http.StatusBadRequest, statusFor(&settings.ValidationError{Field: "x", Reason: "y"}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))

	assert.Equal(t, "ok", saveResult(nil))
	assert.Equal(t, "conflict", saveResult(settings.ErrConcurrentChange))
	assert.Equal(t, "error", saveResult(io.ErrUnexpectedEOF))
}

func setUpRouter(t *testing.T, readOnly bool, traceEnabled bool) (*chi.Mux, *file.Backend) {
	appConfig := config.ApplicationConfiguration{
		File: config.FileConfig{
			Path:     filepath.Join(t.TempDir(), "settings.yaml"),
			ReadOnly: readOnly,
		},
		Tracing: config.Tracing{
			Enabled: traceEnabled,
		},
	}

	fileBackend := &file.Backend{}
	require.NoError(t, fileBackend.Init(context.Background(), appConfig))

	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)

	routing := Routing{
		ServerName:   traceServerName,
		ParentRouter: router,

		Backends:  backend.Backends{fileBackend},
		AppConfig: appConfig,
	}

	router.Route("/", func(r chi.Router) {
		err := routing.SetupFunctionalRoutes(r)
		assert.NoError(t, err)
	})
	return router, fileBackend
}

func validateRequest(t *testing.T, tt ExampleRequest, router http.Handler) string {
	req := httptest.NewRequest(tt.method, tt.url, tt.body)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, tt.statusCode, rec.Code)

	body := strings.TrimSpace(rec.Body.String())
	if tt.jsonOutput != "" {
		assert.JSONEq(t, tt.jsonOutput, body)
	}
	if tt.jsonOutputContains != "" {
		assert.Contains(t, body, tt.jsonOutputContains)
	}
	return body
}

func saveBody(settingsJson string, version string) io.Reader {
	return strings.NewReader(`{"settings":` + settingsJson + `,"version":"` + version + `"}`)
}

func decodeSnapshot(t *testing.T, body string) settings.Snapshot {
	var snapshot settings.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snapshot))
	return snapshot
}

type ExampleRequest struct {
	method             string
	url                string
	body               io.Reader
	statusCode         int
	jsonOutput         string
	jsonOutputContains string
}
