package main

import (
	"context"
	"flag"
)

// runUsage reports the remaining graph requests for the access token.
func (a *app) runUsage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("usage", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining, err := a.graphClient().RemainingUsages(ctx)
	if err != nil {
		return err
	}
	return a.emit(map[string]any{"remaining_usages": remaining})
}

// runFreePapers lists the paper ids retrievable without a token.
func (a *app) runFreePapers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("free-papers", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	papers, err := a.graphClient().FreeAccessPapers(ctx)
	if err != nil {
		return err
	}
	return a.emit(map[string]any{
		"free_access_papers": papers,
		"count":              len(papers),
	})
}
