// Package cpapers is a client for the Connected Papers REST API: graph
// retrieval with polling and backoff, usage queries and free-access
// paper listing.
package cpapers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/rendis/papergraph/internal/logging"
	"github.com/rendis/papergraph/pkg/schema"
)

const (
	// DefaultBaseURL is the production Connected Papers endpoint.
	DefaultBaseURL = "https://rest.prod.connectedpapers.com/papers-api"

	// EnvAPIKey is the environment variable NewClientFromEnv reads.
	EnvAPIKey = "CONNECTED_PAPERS_API_KEY"

	// TestToken is the service's public demo token. It only covers the
	// free-access papers.
	TestToken = "TEST_TOKEN"

	defaultTimeout   = 90 * time.Second
	maxResponseBytes = 10 * 1024 * 1024
	userAgent        = "papergraph-go"
)

// Config holds client construction options. Zero values fall back to
// production defaults.
type Config struct {
	// APIKey authenticates requests via the X-Api-Key header.
	APIKey string
	// BaseURL overrides the service endpoint.
	BaseURL string
	// Timeout bounds each HTTP request. The default is 90s: fresh
	// builds are slow and the service holds the request while queuing.
	Timeout time.Duration
	// PollInterval is the pause between status checks. Defaults to 1s.
	PollInterval time.Duration
	// HTTPClient replaces the default client; Timeout is ignored then.
	HTTPClient *http.Client
	// Logger receives debug records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the Connected Papers service. It is safe for
// concurrent use; every graph retrieval runs as an independent session.
type Client struct {
	apiKey   string
	baseURL  string
	httpc    *http.Client
	logger   *slog.Logger
	interval time.Duration
}

var _ graphFetcher = (*Client)(nil)

// NewClient builds a Client from cfg, applying defaults for unset fields.
func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:   cfg.APIKey,
		baseURL:  DefaultBaseURL,
		httpc:    cfg.HTTPClient,
		logger:   cfg.Logger,
		interval: defaultPollInterval,
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
	if cfg.PollInterval > 0 {
		c.interval = cfg.PollInterval
	}
	return c
}

// NewClientFromEnv builds a Client with the API key taken from the
// CONNECTED_PAPERS_API_KEY environment variable.
func NewClientFromEnv() (*Client, error) {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return nil, schema.NewErrorf(schema.ErrCodeAPIKeyNotFound, "environment variable %s is not set", EnvAPIKey)
	}
	return NewClient(Config{APIKey: key}), nil
}

// GetGraphStream starts a retrieval session for paperID and returns the
// stream of snapshots it produces. The channel is unbuffered and closes
// when the session ends; cancel ctx to stop early. The sequence is
// forward-only and cannot be restarted: call GetGraphStream again for a
// new attempt.
//
// With waitUntilComplete the session polls until a terminal status or a
// fetch error; otherwise it reports the current state once and stops.
// freshOnly demands a rebuild instead of accepting a cached graph.
func (c *Client) GetGraphStream(ctx context.Context, paperID string, freshOnly, waitUntilComplete bool) <-chan GraphResult {
	ctx = logging.WithPaperID(ctx, paperID)
	ctx = logging.WithSessionID(ctx, uuid.NewString())

	s := &graphSession{
		fetcher:  c,
		logger:   c.logger,
		paperID:  paperID,
		fresh:    freshOnly,
		wait:     waitUntilComplete,
		interval: c.interval,
		sleep:    waitInterval,
		out:      make(chan GraphResult),
	}
	go s.run(ctx)
	return s.out
}

// GetGraph retrieves the graph for paperID, polling until the build
// reaches a terminal state, and returns the final snapshot.
func (c *Client) GetGraph(ctx context.Context, paperID string, freshOnly bool) (*schema.GraphResponse, error) {
	var last *schema.GraphResponse
	for res := range c.GetGraphStream(ctx, paperID, freshOnly, true) {
		if res.Err != nil {
			return nil, res.Err
		}
		last = res.Snapshot
	}
	if last == nil {
		return nil, schema.NewError(schema.ErrCodeCancelled, "retrieval ended before any snapshot arrived").
			WithPaper(paperID).WithCause(ctx.Err())
	}
	return last, nil
}

// GetGraphStatus reports the current build state for paperID without
// waiting for completion. At most one snapshot is produced.
func (c *Client) GetGraphStatus(ctx context.Context, paperID string, freshOnly bool) (*schema.GraphResponse, error) {
	for res := range c.GetGraphStream(ctx, paperID, freshOnly, false) {
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Snapshot, nil
	}
	return nil, schema.NewError(schema.ErrCodeCancelled, "retrieval ended before any snapshot arrived").
		WithPaper(paperID).WithCause(ctx.Err())
}

// RemainingUsages returns how many graph requests the account has left.
func (c *Client) RemainingUsages(ctx context.Context) (int64, error) {
	body, err := c.get(ctx, c.baseURL+"/remaining-usages", "")
	if err != nil {
		return 0, err
	}
	var out struct {
		Remaining int64 `json:"remaining"`
	}
	if err := sonic.Unmarshal(body, &out); err != nil {
		return 0, schema.NewErrorf(schema.ErrCodeDecode, "decoding remaining usages: %v", err).WithCause(err)
	}
	return out.Remaining, nil
}

// FreeAccessPapers lists the paper IDs that can be fetched without
// consuming quota.
func (c *Client) FreeAccessPapers(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, c.baseURL+"/free-access-papers", "")
	if err != nil {
		return nil, err
	}
	var out struct {
		Papers []string `json:"papers"`
	}
	if err := sonic.Unmarshal(body, &out); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeDecode, "decoding free access papers: %v", err).WithCause(err)
	}
	return out.Papers, nil
}

// fetchGraph performs one status check. The freshness flag is encoded
// in the path: /graph/1/{id} demands a rebuild, /graph/0/{id} accepts
// whatever the service already has.
func (c *Client) fetchGraph(ctx context.Context, paperID string, fresh bool) (*schema.GraphResponse, error) {
	flag := "0"
	if fresh {
		flag = "1"
	}
	endpoint := fmt.Sprintf("%s/graph/%s/%s", c.baseURL, flag, url.PathEscape(paperID))

	body, err := c.get(ctx, endpoint, paperID)
	if err != nil {
		return nil, err
	}

	var snap schema.GraphResponse
	if err := sonic.Unmarshal(body, &snap); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeDecode, "decoding graph response: %v", err).
			WithPaper(paperID).WithCause(err)
	}
	return &snap, nil
}

// get performs an authenticated GET and returns the body of a 200
// response. paperID is only used to annotate errors and may be empty.
func (c *Client) get(ctx context.Context, endpoint, paperID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeTransport, "building request: %v", err).
			WithPaper(paperID).WithCause(err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeTransport, "request failed: %v", err).
			WithPaper(paperID).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeTransport, "reading response: %v", err).
			WithPaper(paperID).WithCause(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, schema.NewErrorf(schema.ErrCodeRequestFailed, "service returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body))).
			WithPaper(paperID).
			WithDetails(map[string]any{"status_code": resp.StatusCode})
	}
	return body, nil
}
