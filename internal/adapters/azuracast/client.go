// Package azuracast implements the admin REST gateway: one authenticated
// HTTP call per method, status classification, JSON decoding, typed errors.
package azuracast

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = 443
	requestTimeout   = 30 * time.Second
	maxResponseBytes = 1 << 20
)

// ErrInvalidResponse marks a 2xx response whose non-empty body is not valid
// JSON. An empty 2xx body is fine and decodes to an empty result.
var ErrInvalidResponse = errors.New("invalid json response from azuracast api")

// APIError describes a non-2xx response. It carries the status, the response
// body and the request URL; the bearer token never appears in the message.
type APIError struct {
	Status int
	URL    string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("azuracast api request failed (%d) at %s: %s", e.Status, e.URL, e.Body)
}

// Config holds the connection settings for one AzuraCast install.
type Config struct {
	Host string

	// Port is kept as the raw configured string. Anything that is not an
	// integer in [0, 65535] falls back to 443.
	Port string

	// AccessHash is the admin API token, sent as a bearer credential.
	AccessHash string

	// VerifyTLS enables certificate and hostname verification. AzuraCast
	// installs commonly run on self-signed certificates, so verification
	// stays off unless explicitly enabled.
	VerifyTLS bool

	// BaseURL, when set, is used verbatim instead of the host/port pair.
	// Useful for reverse-proxied installs and for tests.
	BaseURL string
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.AccessHash == "" {
		return nil, errors.New("azuracast access hash is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Host == "" {
			return nil, errors.New("azuracast host is required")
		}
		baseURL = fmt.Sprintf("https://%s:%d", cfg.Host, NormalizePort(cfg.Port))
	}
	baseURL = strings.TrimRight(baseURL, "/")

	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		transport = &http.Transport{}
	}
	transport = transport.Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.AccessHash,
		httpClient: &http.Client{Transport: transport},
	}, nil
}

// NormalizePort returns the configured port when it parses as an integer in
// [0, 65535], and 443 for anything else. The silent fallback is part of the
// adapter's connectivity contract.
func NormalizePort(raw string) int {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 0 || port > 65535 {
		return defaultPort
	}
	return port
}

// BaseURL returns the panel address the client calls, without a trailing
// slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one authenticated request. A nil payload sends no body; a nil
// out discards the response body after the status check.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	endpoint := c.baseURL + path

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{Status: resp.StatusCode, URL: endpoint, Body: string(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, requestTimeout)
}
