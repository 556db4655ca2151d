package s2

import (
	"context"
	"net/url"
)

// Autocomplete returns minimal paper records matching a partial query,
// for interactive query completion. The service truncates the query
// to its first 100 characters.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]AutocompletePaper, error) {
	var out struct {
		Matches []AutocompletePaper `json:"matches"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/paper/autocomplete?query="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}
