package s2

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"

	"github.com/rendis/papergraph/pkg/schema"
)

// GetPaper fetches the details of a single paper, selecting the
// attributes named in fields. It returns (nil, nil) when the service
// does not know the paper.
func (c *Client) GetPaper(ctx context.Context, id PaperID, fields ...PaperField) (*Paper, error) {
	if id.IsZero() {
		return nil, schema.NewError(schema.ErrCodeInvalidParameter, "paper id must be set")
	}

	endpoint := c.baseURL + "/paper/" + url.PathEscape(id.String())
	if len(fields) > 0 {
		endpoint += "?fields=" + joinFields(fields)
	}

	status, body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, requestFailed(status, body)
	}

	var paper Paper
	if err := sonic.Unmarshal(body, &paper); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeDecode, "decoding paper: %v", err).WithCause(err)
	}
	return &paper, nil
}
