package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/GlintPay/gds/api"
	"github.com/GlintPay/gds/settings"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client Talks to a settings server over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Opt func(*Client)

func WithHTTPClient(hc *http.Client) Opt {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(timeout time.Duration) Opt {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func New(baseURL string, opts ...Opt) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, optionFunc := range opts {
		optionFunc(c)
	}
	return c
}

// Error A non-2xx response. The server's message is kept verbatim, so callers can match on its text.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func (c *Client) Load(ctx context.Context) (settings.Snapshot, error) {
	var snapshot settings.Snapshot
	err := c.do(ctx, http.MethodGet, api.SettingsPath, nil, nil, &snapshot)
	return snapshot, err
}

func (c *Client) Save(ctx context.Context, s settings.GlobalSettings, version string, force bool) (settings.Snapshot, error) {
	var query url.Values
	if force {
		query = url.Values{"force": []string{"true"}}
	}

	var snapshot settings.Snapshot
	err := c.do(ctx, http.MethodPut, api.SettingsPath, query, api.SaveBody{Settings: s, Version: version}, &snapshot)
	return snapshot, err
}

func (c *Client) CanI(ctx context.Context) (bool, error) {
	var resp api.PermissionResponse
	if err := c.do(ctx, http.MethodGet, api.SettingsPath+"/cani", nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Allowed, nil
}

func (c *Client) Defaults(ctx context.Context) (settings.GlobalSettings, error) {
	var s settings.GlobalSettings
	err := c.do(ctx, http.MethodGet, api.SettingsPath+"/defaults", nil, nil, &s)
	return s, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, respBytes)
	}

	if e := json.Unmarshal(respBytes, out); e != nil {
		return fmt.Errorf("%s %s: cannot decode response: %w", method, path, e)
	}
	return nil
}

func responseError(status int, body []byte) error {
	var errResp api.ErrorResponse
	if e := json.Unmarshal(body, &errResp); e == nil && errResp.Message != "" {
		return &Error{StatusCode: status, Message: errResp.Message}
	}
	return &Error{StatusCode: status, Message: strings.TrimSpace(string(body))}
}
