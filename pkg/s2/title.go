package s2

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/rendis/papergraph/pkg/schema"
)

// TitleParams drives the single-paper title match. Query should be a
// full or partial paper title.
type TitleParams struct {
	Query string
	SearchFilters
}

func (p *TitleParams) queryString() (string, error) {
	if strings.TrimSpace(p.Query) == "" {
		return "", schema.NewError(schema.ErrCodeInvalidParameter, "query must be set")
	}
	if err := p.validate(); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("query=" + url.QueryEscape(p.Query))
	p.encode(&sb)
	return sb.String(), nil
}

// MatchedPaper is the closest title match, with the service's match
// confidence.
type MatchedPaper struct {
	Paper
	Score float64 `json:"matchScore"`
}

// MatchPaper finds the single paper whose title best matches the
// query. It returns (nil, nil) when the service reports no match.
func (c *Client) MatchPaper(ctx context.Context, params TitleParams) (*MatchedPaper, error) {
	qs, err := params.queryString()
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(ctx, http.MethodGet, c.baseURL+"/paper/search/match?"+qs, nil)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		// The service answers 404 for "no title matched", which is
		// an empty result here, not a failure.
		return nil, nil
	default:
		return nil, requestFailed(status, body)
	}

	var out struct {
		Data []MatchedPaper `json:"data"`
	}
	if err := sonic.Unmarshal(body, &out); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeDecode, "decoding match response: %v", err).WithCause(err)
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return &out.Data[0], nil
}
