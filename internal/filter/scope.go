package filter

import (
	"github.com/bytedance/sonic"

	"github.com/rendis/papergraph/pkg/schema"
)

// DocumentScope converts a JSON-marshalable value into the generic map
// form the engines evaluate against, with the wire field names as keys.
func DocumentScope(v any) (map[string]any, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeDecode, "encoding document: %v", err).WithCause(err)
	}
	var doc map[string]any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeDecode, "decoding document: %v", err).WithCause(err)
	}
	return doc, nil
}

// SnapshotScope builds the watch-condition variables from a graph
// snapshot. Unset optional fields stay absent; the engines substitute
// their own neutral defaults.
func SnapshotScope(snap *schema.GraphResponse) (map[string]any, error) {
	if snap == nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "nil snapshot")
	}
	doc, err := DocumentScope(snap)
	if err != nil {
		return nil, err
	}

	scope := map[string]any{
		"status":   string(snap.Status),
		"snapshot": doc,
	}
	if snap.Progress != nil {
		scope["progress"] = *snap.Progress
	}
	if snap.RemainingRequests != nil {
		scope["remaining_requests"] = *snap.RemainingRequests
	}
	if graph, ok := doc["graph_json"].(map[string]any); ok {
		scope["graph"] = graph
	}
	return scope, nil
}
