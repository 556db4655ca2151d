package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/papergraph/pkg/schema"
)

func TestDocumentScope_UsesWireNames(t *testing.T) {
	node := schema.PaperNode{ID: "abc", PaperID: "abc", Title: "T"}
	doc, err := DocumentScope(node)
	require.NoError(t, err)

	assert.Equal(t, "abc", doc["paper_id"])
	assert.Equal(t, "T", doc["title"])
}

func TestSnapshotScope_TerminalSnapshot(t *testing.T) {
	progress := 1.0
	remaining := int64(42)
	snap := &schema.GraphResponse{
		Status:            schema.StatusFreshGraph,
		Progress:          &progress,
		RemainingRequests: &remaining,
		GraphJSON: &schema.Graph{
			StartID: "abc",
			Nodes:   map[string]schema.PaperNode{"abc": {ID: "abc"}},
		},
	}

	scope, err := SnapshotScope(snap)
	require.NoError(t, err)

	assert.Equal(t, "FRESH_GRAPH", scope["status"])
	assert.Equal(t, 1.0, scope["progress"])
	assert.Equal(t, int64(42), scope["remaining_requests"])
	graph, ok := scope["graph"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "abc", graph["start_id"])
	snapshot, ok := scope["snapshot"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "FRESH_GRAPH", snapshot["status"])
}

func TestSnapshotScope_SparseSnapshotOmitsUnset(t *testing.T) {
	scope, err := SnapshotScope(&schema.GraphResponse{Status: schema.StatusQueued})
	require.NoError(t, err)

	assert.Equal(t, "QUEUED", scope["status"])
	assert.NotContains(t, scope, "progress")
	assert.NotContains(t, scope, "remaining_requests")
	assert.NotContains(t, scope, "graph")
}

func TestSnapshotScope_NilSnapshot(t *testing.T) {
	_, err := SnapshotScope(nil)
	var pgErr *schema.PapergraphError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, schema.ErrCodeValidation, pgErr.Code)
}

func TestSnapshotScope_FeedsWatchConditions(t *testing.T) {
	e, err := NewCELEngine()
	require.NoError(t, err)

	progress := 0.8
	scope, err := SnapshotScope(&schema.GraphResponse{Status: schema.StatusInProgress, Progress: &progress})
	require.NoError(t, err)

	out, err := e.Evaluate(context.Background(), `status == "IN_PROGRESS" && progress > 0.75`, scope)
	require.NoError(t, err)
	assert.Equal(t, true, out)
}
