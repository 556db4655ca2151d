package s2

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rendis/papergraph/pkg/schema"
)

// QueryNode is one node of a bulk search match query. Build leaves
// with Term, Phrase, Prefix, Fuzzy or Proximity and combine them with
// And, Or and Not; String renders the service's query syntax.
//
// Nodes are immutable: combinators return new nodes and never modify
// their operands.
type QueryNode struct {
	kind     queryKind
	text     string
	distance int
	children []*QueryNode
}

type queryKind int

const (
	kindTerm queryKind = iota
	kindPhrase
	kindPrefix
	kindFuzzy
	kindProximity
	kindAnd
	kindOr
	kindNot
)

// Term matches papers containing the word.
func Term(text string) *QueryNode {
	return &QueryNode{kind: kindTerm, text: text}
}

// Phrase matches papers containing the words as a phrase.
func Phrase(text string) *QueryNode {
	return &QueryNode{kind: kindPhrase, text: text}
}

// Prefix matches words starting with text.
func Prefix(text string) *QueryNode {
	return &QueryNode{kind: kindPrefix, text: text}
}

// Fuzzy matches words within the given edit distance of text. A
// negative distance renders a bare ~, which the service reads as
// distance 2.
func Fuzzy(text string, distance int) *QueryNode {
	return &QueryNode{kind: kindFuzzy, text: text, distance: distance}
}

// Proximity matches the phrase with its words separated by up to
// distance other words.
func Proximity(text string, distance int) *QueryNode {
	return &QueryNode{kind: kindProximity, text: text, distance: distance}
}

// And requires both nodes to match. Chained calls flatten into one
// conjunction.
func (q *QueryNode) And(other *QueryNode) *QueryNode {
	if q.kind == kindAnd {
		children := append(append([]*QueryNode{}, q.children...), other)
		return &QueryNode{kind: kindAnd, children: children}
	}
	return &QueryNode{kind: kindAnd, children: []*QueryNode{q, other}}
}

// Or accepts either node. Chained calls flatten into one disjunction.
func (q *QueryNode) Or(other *QueryNode) *QueryNode {
	if q.kind == kindOr {
		children := append(append([]*QueryNode{}, q.children...), other)
		return &QueryNode{kind: kindOr, children: children}
	}
	return &QueryNode{kind: kindOr, children: []*QueryNode{q, other}}
}

// Not excludes papers matching the node.
func (q *QueryNode) Not() *QueryNode {
	return &QueryNode{kind: kindNot, children: []*QueryNode{q}}
}

// String renders the match query. Or children of a conjunction and
// negated compounds get parenthesized; everything else relies on the
// service's precedence.
func (q *QueryNode) String() string {
	switch q.kind {
	case kindTerm:
		return q.text
	case kindPhrase:
		return `"` + q.text + `"`
	case kindPrefix:
		return q.text + "*"
	case kindFuzzy:
		if q.distance < 0 {
			return q.text + "~"
		}
		return fmt.Sprintf("%s~%d", q.text, q.distance)
	case kindProximity:
		return fmt.Sprintf("\"%s\"~%d", q.text, q.distance)
	case kindNot:
		inner := q.children[0]
		if inner.kind == kindAnd || inner.kind == kindOr {
			return "-(" + inner.String() + ")"
		}
		return "-" + inner.String()
	case kindAnd:
		parts := make([]string, len(q.children))
		for i, child := range q.children {
			if child.kind == kindOr {
				parts[i] = "(" + child.String() + ")"
			} else {
				parts[i] = child.String()
			}
		}
		return strings.Join(parts, " + ")
	case kindOr:
		parts := make([]string, len(q.children))
		for i, child := range q.children {
			parts[i] = child.String()
		}
		return strings.Join(parts, " | ")
	}
	return ""
}

// SortField names the attributes bulk search can sort by.
type SortField string

const (
	SortByPaperID         SortField = "paperId"
	SortByPublicationDate SortField = "publicationDate"
	SortByCitationCount   SortField = "citationCount"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Sort orders bulk search results. Ties are broken by paperId; papers
// without the sort value come last regardless of direction.
type Sort struct {
	Field SortField
	Order SortOrder
}

// String renders field:order; an unset order falls back to the
// service default, ascending.
func (s Sort) String() string {
	if s.Order == "" {
		return string(s.Field)
	}
	return string(s.Field) + ":" + string(s.Order)
}

// BulkSearchParams drives the bulk search. Query is required; Token
// continues a previous response's pagination.
type BulkSearchParams struct {
	// Query is a boolean match query built from QueryNode
	// combinators.
	Query *QueryNode
	// Token is the continuation token of the previous page.
	Token string
	// Sort orders the results; nil keeps the default paperId:asc.
	// Changing the sort between paginated calls gives undefined
	// results.
	Sort *Sort
	SearchFilters
}

// bulkUnsupportedFields need nested paper data, which bulk search
// does not return.
var bulkUnsupportedFields = []PaperField{FieldCitations, FieldReferences, FieldEmbedding, FieldTldr}

func (p *BulkSearchParams) queryString() (string, error) {
	if p.Query == nil {
		return "", schema.NewError(schema.ErrCodeInvalidParameter, "query must be set")
	}
	for _, unsupported := range bulkUnsupportedFields {
		for _, f := range p.Fields {
			if f == unsupported {
				return "", schema.NewErrorf(schema.ErrCodeInvalidParameter, "%s is not supported", f)
			}
		}
	}
	if err := p.validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("query=" + url.QueryEscape(p.Query.String()))
	if p.Token != "" {
		sb.WriteString("&token=" + url.QueryEscape(p.Token))
	}
	if p.Sort != nil {
		sb.WriteString("&sort=" + p.Sort.String())
	}
	p.encode(&sb)
	return sb.String(), nil
}

// BulkSearchResponse is one page of bulk search results.
type BulkSearchResponse struct {
	// Total is the estimated number of matches.
	Total int64 `json:"total"`
	// Token fetches the next page when repeated with the same query;
	// empty on the last page.
	Token string  `json:"token,omitempty"`
	Data  []Paper `json:"data"`
}

// BulkSearch fetches basic paper data without relevance ranking, up
// to 1000 papers per call and 10M per query via token pagination.
// Nested data (citations, references, embedding, tldr) is not
// available here.
func (c *Client) BulkSearch(ctx context.Context, params BulkSearchParams) (*BulkSearchResponse, error) {
	qs, err := params.queryString()
	if err != nil {
		return nil, err
	}
	var out BulkSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/paper/search/bulk?"+qs, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
