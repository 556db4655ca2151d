package s2

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rendis/papergraph/pkg/schema"
)

// maxSearchLimit is the largest page size the search endpoints accept.
const maxSearchLimit = 100

// Date is a publication date with day or month precision. Use NewDate
// or NewMonth; the zero value renders as an invalid date.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a day-precision date, rejecting values that do not
// name a real calendar day.
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, schema.NewErrorf(schema.ErrCodeInvalidParameter,
			"%04d-%02d-%02d is not a calendar date", year, int(month), day)
	}
	return Date{year: year, month: month, day: day}, nil
}

// NewMonth builds a month-precision date, which the service treats as
// the whole month.
func NewMonth(year int, month time.Month) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, schema.NewErrorf(schema.ErrCodeInvalidParameter,
			"%d is not a calendar month", int(month))
	}
	return Date{year: year, month: month}, nil
}

// String renders YYYY-MM-DD, or YYYY-MM for month precision.
func (d Date) String() string {
	if d.day == 0 {
		return fmt.Sprintf("%04d-%02d", d.year, int(d.month))
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// SearchFilters restricts which papers a search returns. The zero
// value applies no restrictions. The same set is accepted by Search,
// BulkSearch and MatchPaper.
type SearchFilters struct {
	// Fields selects the attributes of each returned paper. When
	// empty the service sends its minimal default (paperId, title).
	Fields []PaperField
	// PublicationTypes keeps papers of any of the given types.
	PublicationTypes []PublicationType
	// OpenAccessPDF keeps only papers with a public PDF.
	OpenAccessPDF bool
	// MinCitationCount drops papers cited fewer times.
	MinCitationCount int
	// PublicationDateFrom/To bound the publication date range; either
	// side may be nil for an open end.
	PublicationDateFrom *Date
	PublicationDateTo   *Date
	// YearFrom/YearTo bound the publication year, inclusive; zero
	// means unbounded. Equal bounds select a single year.
	YearFrom int
	YearTo   int
	// FieldsOfStudy keeps papers in any of the given categories.
	FieldsOfStudy []FieldOfStudy
	// Venues keeps papers published in any of the given venues; ISO4
	// abbreviations work too.
	Venues []string
}

func (f *SearchFilters) validate() error {
	if f.MinCitationCount < 0 {
		return schema.NewError(schema.ErrCodeInvalidParameter, "minimum citation count must not be negative")
	}
	if f.YearFrom < 0 || f.YearTo < 0 {
		return schema.NewError(schema.ErrCodeInvalidParameter, "year bounds must not be negative")
	}
	if f.YearFrom > 0 && f.YearTo > 0 && f.YearFrom > f.YearTo {
		return schema.NewError(schema.ErrCodeInvalidParameter, "start year must be less than or equal to end year")
	}
	return nil
}

// encode appends the filter parameters in the order the service
// documents them.
func (f *SearchFilters) encode(sb *strings.Builder) {
	if len(f.Fields) > 0 {
		sb.WriteString("&fields=" + joinFields(f.Fields))
	}
	if len(f.PublicationTypes) > 0 {
		sb.WriteString("&publicationTypes=" + joinFields(f.PublicationTypes))
	}
	if f.OpenAccessPDF {
		// Valueless flag: presence alone activates it.
		sb.WriteString("&openAccessPdf")
	}
	if f.MinCitationCount > 0 {
		fmt.Fprintf(sb, "&minCitationCount=%d", f.MinCitationCount)
	}
	if f.PublicationDateFrom != nil || f.PublicationDateTo != nil {
		sb.WriteString("&publicationDate=")
		if f.PublicationDateFrom != nil {
			sb.WriteString(f.PublicationDateFrom.String())
		}
		sb.WriteString(":")
		if f.PublicationDateTo != nil {
			sb.WriteString(f.PublicationDateTo.String())
		}
	}
	switch {
	case f.YearFrom > 0 && f.YearTo > 0 && f.YearFrom == f.YearTo:
		fmt.Fprintf(sb, "&year=%d", f.YearFrom)
	case f.YearFrom > 0 && f.YearTo > 0:
		fmt.Fprintf(sb, "&year=%d-%d", f.YearFrom, f.YearTo)
	case f.YearFrom > 0:
		fmt.Fprintf(sb, "&year=%d-", f.YearFrom)
	case f.YearTo > 0:
		fmt.Fprintf(sb, "&year=-%d", f.YearTo)
	}
	if len(f.FieldsOfStudy) > 0 {
		sb.WriteString("&fieldsOfStudy=" + url.QueryEscape(joinFields(f.FieldsOfStudy)))
	}
	if len(f.Venues) > 0 {
		escaped := make([]string, len(f.Venues))
		for i, v := range f.Venues {
			escaped[i] = url.QueryEscape(v)
		}
		sb.WriteString("&venue=" + strings.Join(escaped, ","))
	}
}

// ParseYearRange parses the service's year grammar into a from/to
// pair: "2019" (single year), "2016-2020" (inclusive range), "2010-"
// (open end) and "-2015" (open start). Zero means the bound is unset.
func ParseYearRange(spec string) (from, to int, err error) {
	parse := func(s string) (int, error) {
		y, convErr := strconv.Atoi(s)
		if convErr != nil || y <= 0 {
			return 0, schema.NewErrorf(schema.ErrCodeInvalidParameter,
				"%q is not a year", s)
		}
		return y, nil
	}

	before, after, ranged := strings.Cut(spec, "-")
	if !ranged {
		y, parseErr := parse(spec)
		if parseErr != nil {
			return 0, 0, parseErr
		}
		return y, y, nil
	}
	if before == "" && after == "" {
		return 0, 0, schema.NewErrorf(schema.ErrCodeInvalidParameter,
			"year range %q has no bounds", spec)
	}
	if before != "" {
		if from, err = parse(before); err != nil {
			return 0, 0, err
		}
	}
	if after != "" {
		if to, err = parse(after); err != nil {
			return 0, 0, err
		}
	}
	if from > 0 && to > 0 && from > to {
		return 0, 0, schema.NewErrorf(schema.ErrCodeInvalidParameter,
			"year range %q runs backwards", spec)
	}
	return from, to, nil
}

// SearchParams drives the relevance search. Query is required; the
// rest is optional.
type SearchParams struct {
	// Query is a plain-text query matched against title and abstract.
	// No special syntax; hyphens yield no matches, use spaces.
	Query string
	SearchFilters
	// Offset skips that many results for pagination.
	Offset int
	// Limit caps the page size, at most 100. Zero keeps the service
	// default.
	Limit int
}

func (p *SearchParams) queryString() (string, error) {
	if strings.TrimSpace(p.Query) == "" {
		return "", schema.NewError(schema.ErrCodeInvalidParameter, "query must be set")
	}
	if p.Offset < 0 {
		return "", schema.NewError(schema.ErrCodeInvalidParameter, "offset must not be negative")
	}
	if p.Limit < 0 || p.Limit > maxSearchLimit {
		return "", schema.NewErrorf(schema.ErrCodeInvalidParameter, "limit must be between 0 and %d", maxSearchLimit)
	}
	if err := p.validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("query=" + url.QueryEscape(p.Query))
	p.encode(&sb)
	if p.Offset > 0 {
		fmt.Fprintf(&sb, "&offset=%d", p.Offset)
	}
	if p.Limit > 0 {
		fmt.Fprintf(&sb, "&limit=%d", p.Limit)
	}
	return sb.String(), nil
}

// SearchResponse is one page of relevance search results.
type SearchResponse struct {
	// Total is the approximate number of matches.
	Total int64 `json:"total"`
	// Offset is the position of this page.
	Offset int64 `json:"offset"`
	// Next is the offset of the following page, absent on the last
	// one.
	Next *int64  `json:"next,omitempty"`
	Data []Paper `json:"data"`
}

// Search runs a relevance-ranked paper search. Results beyond the
// first 1000 are not reachable; use BulkSearch to page through large
// result sets.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	qs, err := params.queryString()
	if err != nil {
		return nil, err
	}
	var out SearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/paper/search?"+qs, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
