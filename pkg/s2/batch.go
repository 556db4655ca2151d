package s2

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/rendis/papergraph/pkg/schema"
)

// maxBatchIDs is the largest id list one batch call accepts.
const maxBatchIDs = 500

// BatchParams drives a multi-paper lookup.
type BatchParams struct {
	IDs    []PaperID
	Fields []PaperField
}

// GetPaperBatch fetches details for up to 500 papers in one call. The
// result keeps the order of params.IDs, with nil entries for ids the
// service could not resolve.
func (c *Client) GetPaperBatch(ctx context.Context, params BatchParams) ([]*Paper, error) {
	if len(params.IDs) == 0 {
		return nil, schema.NewError(schema.ErrCodeInvalidParameter, "at least one paper id must be set")
	}
	if len(params.IDs) > maxBatchIDs {
		return nil, schema.NewErrorf(schema.ErrCodeInvalidParameter, "at most %d paper ids per call, got %d", maxBatchIDs, len(params.IDs))
	}

	endpoint := c.baseURL + "/paper/batch"
	if len(params.Fields) > 0 {
		endpoint += "?fields=" + joinFields(params.Fields)
	}
	payload := struct {
		IDs []PaperID `json:"ids"`
	}{IDs: params.IDs}

	status, body, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, requestFailed(status, body)
	}

	var papers []*Paper
	if err := sonic.Unmarshal(body, &papers); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeDecode, "decoding paper batch: %v", err).WithCause(err)
	}
	return papers, nil
}
