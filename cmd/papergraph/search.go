package main

import (
	"context"
	"flag"
	"log/slog"
	"strings"

	"github.com/rendis/papergraph/internal/filter"
	"github.com/rendis/papergraph/pkg/s2"
	"github.com/rendis/papergraph/pkg/schema"
)

// runSearch performs a relevance search and writes one paper document
// per line. An optional expr predicate filters results locally; an
// optional jq expression reshapes each document.
func (a *app) runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	limit := fs.Int("limit", 0, "maximum number of results (up to 100)")
	offset := fs.Int("offset", 0, "results to skip for pagination")
	year := fs.String("year", "", "publication year or range: 2019, 2016-2020, 2010-, -2015")
	minCitations := fs.Int("min-citations", 0, "only papers with at least this many citations")
	openAccess := fs.Bool("open-access", false, "only papers with a freely available PDF")
	fields := fs.String("fields", "", "comma-separated response fields, e.g. title,year,citationCount")
	filterExpr := fs.String("filter", "", `expr predicate applied to each paper, e.g. 'citationCount > 100'`)
	jqExpr := fs.String("jq", "", "jq expression applied to each paper document")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return schema.NewError(schema.ErrCodeInvalidParameter, "search needs a query")
	}

	params := s2.SearchParams{
		Query:  query,
		Limit:  *limit,
		Offset: *offset,
	}
	params.MinCitationCount = *minCitations
	params.OpenAccessPDF = *openAccess
	params.Fields = splitFields(*fields)
	if *year != "" {
		from, to, err := s2.ParseYearRange(*year)
		if err != nil {
			return err
		}
		params.YearFrom, params.YearTo = from, to
	}

	resp, err := a.scholarClient().Search(ctx, params)
	if err != nil {
		return err
	}

	papers := resp.Data
	if *filterExpr != "" {
		papers, err = filterPapers(ctx, *filterExpr, papers)
		if err != nil {
			return err
		}
	}

	for _, paper := range papers {
		var doc any = paper
		if *jqExpr != "" {
			if doc, err = a.applyJQ(ctx, *jqExpr, paper); err != nil {
				return err
			}
		}
		if err := a.emit(doc); err != nil {
			return err
		}
	}

	a.logger.InfoContext(ctx, "search complete",
		slog.Int64("total", resp.Total),
		slog.Int("returned", len(resp.Data)),
		slog.Int("matched", len(papers)),
		slog.Any("next", resp.Next),
	)
	return nil
}

// filterPapers keeps the papers for which the expr predicate is true.
func filterPapers(ctx context.Context, expression string, papers []s2.Paper) ([]s2.Paper, error) {
	engine := filter.NewExprEngine()

	kept := make([]s2.Paper, 0, len(papers))
	for _, paper := range papers {
		doc, err := filter.DocumentScope(paper)
		if err != nil {
			return nil, err
		}
		verdict, err := engine.Evaluate(ctx, expression, doc)
		if err != nil {
			return nil, err
		}
		if keep, ok := verdict.(bool); ok && keep {
			kept = append(kept, paper)
		}
	}
	return kept, nil
}

// splitFields parses a comma-separated field list.
func splitFields(list string) []s2.PaperField {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	fields := make([]s2.PaperField, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, s2.PaperField(part))
		}
	}
	return fields
}
