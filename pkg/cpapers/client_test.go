package cpapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/papergraph/pkg/schema"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"})

	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, defaultTimeout, c.httpc.Timeout)
	assert.Equal(t, defaultPollInterval, c.interval)
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "secret")
	c, err := NewClientFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "secret", c.apiKey)

	t.Setenv(EnvAPIKey, "")
	_, err = NewClientFromEnv()
	require.Error(t, err)
	var pgErr *schema.PapergraphError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, schema.ErrCodeAPIKeyNotFound, pgErr.Code)
}

func TestClient_GetGraphStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graph/1/10.1038%2Fnature14539", r.URL.EscapedPath())
		assert.Equal(t, "key-1", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`{"status": "IN_PROGRESS", "progress": 0.4}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "key-1", BaseURL: srv.URL})
	snapshot, err := c.GetGraphStatus(context.Background(), "10.1038/nature14539", true)

	require.NoError(t, err)
	assert.Equal(t, schema.StatusInProgress, snapshot.Status)
	require.NotNil(t, snapshot.Progress)
	assert.Equal(t, 0.4, *snapshot.Progress)
}

func TestClient_GetGraphPollsToCompletion(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graph/0/abc", r.URL.Path)
		if hits.Add(1) < 3 {
			w.Write([]byte(`{"status": "IN_PROGRESS", "progress": 0.5}`))
			return
		}
		w.Write([]byte(`{"status": "FRESH_GRAPH", "graph_json": {
			"start_id": "abc",
			"nodes": {"abc": {"id": "abc", "paper_id": "abc", "title": "T"}},
			"edges": [], "citations": [], "references": [], "authors": [],
			"parameters": {"paper_id": "abc", "total_nodes": 1, "num_commons": 0,
				"max_load": 1000, "num_neighbors": 40, "spring_iterations": 60},
			"current_corpus_date": "2024-06-01",
			"creation_time": "2024-06-02T10:00:00Z"
		}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, PollInterval: time.Millisecond})
	snapshot, err := c.GetGraph(context.Background(), "abc", false)

	require.NoError(t, err)
	assert.Equal(t, schema.StatusFreshGraph, snapshot.Status)
	require.NotNil(t, snapshot.GraphJSON)
	assert.Equal(t, "abc", snapshot.GraphJSON.StartID)
	assert.GreaterOrEqual(t, hits.Load(), int32(3))
}

func TestClient_GetGraphStreamOrder(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch hits.Add(1) {
		case 1:
			w.Write([]byte(`{"status": "QUEUED"}`))
		case 2:
			w.Write([]byte(`{"status": "IN_PROGRESS", "progress": 0.8}`))
		default:
			w.Write([]byte(`{"status": "ERROR"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, PollInterval: time.Millisecond})

	var seen []schema.GraphStatus
	for res := range c.GetGraphStream(context.Background(), "abc", false, true) {
		require.NoError(t, res.Err)
		seen = append(seen, res.Snapshot.Status)
	}
	assert.Equal(t, []schema.GraphStatus{
		schema.StatusQueued,
		schema.StatusInProgress,
		schema.StatusError,
	}, seen)
}

func TestClient_RequestFailedKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid api key"))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "bad", BaseURL: srv.URL})
	_, err := c.GetGraphStatus(context.Background(), "abc", false)

	var pgErr *schema.PapergraphError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, schema.ErrCodeRequestFailed, pgErr.Code)
	assert.Equal(t, "abc", pgErr.PaperID)
	assert.Contains(t, pgErr.Message, "invalid api key")
	assert.Equal(t, http.StatusForbidden, pgErr.Details["status_code"])
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.GetGraphStatus(context.Background(), "abc", false)

	var pgErr *schema.PapergraphError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, schema.ErrCodeDecode, pgErr.Code)
}

func TestClient_RemainingUsages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/remaining-usages", r.URL.Path)
		assert.Equal(t, "key-2", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`{"remaining": 37}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "key-2", BaseURL: srv.URL})
	remaining, err := c.RemainingUsages(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(37), remaining)
}

func TestClient_FreeAccessPapers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/free-access-papers", r.URL.Path)
		w.Write([]byte(`{"papers": ["paper-a", "paper-b"]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	papers, err := c.FreeAccessPapers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"paper-a", "paper-b"}, papers)
}
