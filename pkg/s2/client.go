// Package s2 is a client for the Semantic Scholar Academic Graph API:
// relevance and bulk paper search, title matching, autocomplete and
// single or batch paper lookup.
//
// All endpoints work without an API key under the public rate limits;
// authenticated clients get higher ones.
package s2

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/rendis/papergraph/pkg/schema"
)

const (
	// DefaultBaseURL is the production Academic Graph endpoint.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// EnvAPIKey is the environment variable NewClientFromEnv reads.
	EnvAPIKey = "SEMANTIC_SCHOLAR_API_KEY"

	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 10 * 1024 * 1024
	userAgent        = "papergraph-go"
)

// Config holds client construction options. Zero values fall back to
// production defaults; an empty APIKey makes anonymous requests.
type Config struct {
	// APIKey authenticates requests via the x-api-key header.
	APIKey string
	// BaseURL overrides the service endpoint.
	BaseURL string
	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration
	// HTTPClient replaces the default client; Timeout is ignored then.
	HTTPClient *http.Client
	// Logger receives debug records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the Semantic Scholar service. It is safe for
// concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient builds a Client from cfg, applying defaults for unset fields.
func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: DefaultBaseURL,
		httpc:   cfg.HTTPClient,
		logger:  cfg.Logger,
	}
	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if c.httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpc = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// NewClientFromEnv builds a Client with the API key taken from the
// SEMANTIC_SCHOLAR_API_KEY environment variable.
func NewClientFromEnv() (*Client, error) {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return nil, schema.NewErrorf(schema.ErrCodeAPIKeyNotFound, "environment variable %s is not set", EnvAPIKey)
	}
	return NewClient(Config{APIKey: key}), nil
}

// do performs one request and returns the status code plus the body.
// The error covers building, transport and read problems only; status
// handling stays with the caller because some endpoints treat 404 as a
// regular "no match" answer.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := sonic.Marshal(payload)
		if err != nil {
			return 0, nil, schema.NewErrorf(schema.ErrCodeTransport, "encoding request body: %v", err).WithCause(err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, nil, schema.NewErrorf(schema.ErrCodeTransport, "building request: %v", err).WithCause(err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.DebugContext(ctx, "scholar request", slog.String("method", method), slog.String("url", endpoint))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, schema.NewErrorf(schema.ErrCodeTransport, "request failed: %v", err).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, schema.NewErrorf(schema.ErrCodeTransport, "reading response: %v", err).WithCause(err)
	}
	return resp.StatusCode, body, nil
}

// getJSON performs a GET expecting a 200 with a JSON body decoded into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return requestFailed(status, body)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return schema.NewErrorf(schema.ErrCodeDecode, "decoding response: %v", err).WithCause(err)
	}
	return nil
}

// requestFailed wraps a non-200 answer, keeping the service's own
// error text.
func requestFailed(status int, body []byte) *schema.PapergraphError {
	return schema.NewErrorf(schema.ErrCodeRequestFailed, "service returned %d: %s",
		status, strings.TrimSpace(string(body))).
		WithDetails(map[string]any{"status_code": status})
}
