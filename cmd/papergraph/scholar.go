package main

import (
	"context"
	"flag"
	"strings"

	"github.com/rendis/papergraph/pkg/s2"
	"github.com/rendis/papergraph/pkg/schema"
)

// runMatch resolves a title to the closest matching paper.
func (a *app) runMatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	fields := fs.String("fields", "", "comma-separated response fields")
	if err := fs.Parse(args); err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return schema.NewError(schema.ErrCodeInvalidParameter, "match needs a title")
	}

	params := s2.TitleParams{Query: title}
	params.Fields = splitFields(*fields)

	match, err := a.scholarClient().MatchPaper(ctx, params)
	if err != nil {
		return err
	}
	if match == nil {
		return a.emit(map[string]any{"matched": false, "title": title})
	}
	return a.emit(match)
}

// runAutocomplete prints typeahead suggestions for a partial query.
func (a *app) runAutocomplete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("autocomplete", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return schema.NewError(schema.ErrCodeInvalidParameter, "autocomplete needs a query")
	}

	matches, err := a.scholarClient().Autocomplete(ctx, query)
	if err != nil {
		return err
	}
	return a.emit(map[string]any{"matches": matches})
}

// runPaper looks up a single paper by id, prefixed forms included.
func (a *app) runPaper(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("paper", flag.ContinueOnError)
	fields := fs.String("fields", "", "comma-separated response fields")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return schema.NewError(schema.ErrCodeInvalidParameter, "paper needs exactly one id")
	}

	paper, err := a.scholarClient().GetPaper(ctx, s2.ParsePaperID(fs.Arg(0)), splitFields(*fields)...)
	if err != nil {
		return err
	}
	if paper == nil {
		return a.emit(map[string]any{"found": false, "id": fs.Arg(0)})
	}
	return a.emit(paper)
}

// runBatch looks up many papers in one call. The response array keeps
// request order; ids the service cannot resolve come back as null.
func (a *app) runBatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fields := fs.String("fields", "", "comma-separated response fields")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return schema.NewError(schema.ErrCodeInvalidParameter, "batch needs at least one paper id")
	}

	ids := make([]s2.PaperID, fs.NArg())
	for i, arg := range fs.Args() {
		ids[i] = s2.ParsePaperID(arg)
	}

	papers, err := a.scholarClient().GetPaperBatch(ctx, s2.BatchParams{
		IDs:    ids,
		Fields: splitFields(*fields),
	})
	if err != nil {
		return err
	}
	return a.emit(papers)
}
