package main

import (
	"context"
	"flag"

	"github.com/rendis/papergraph/internal/filter"
	"github.com/rendis/papergraph/pkg/schema"
)

// runStatus reports the current build state of one graph and returns.
func (a *app) runStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fresh := fs.Bool("fresh", false, "ask for a fresh rebuild before reporting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return schema.NewError(schema.ErrCodeInvalidParameter, "status needs exactly one paper id")
	}

	resp, err := a.graphClient().GetGraphStatus(ctx, fs.Arg(0), *fresh)
	if err != nil {
		return err
	}
	return a.emit(resp)
}

// runWatch streams every build snapshot as a JSON line until the
// session ends, or until an optional CEL condition holds.
func (a *app) runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fresh := fs.Bool("fresh", false, "force a fresh rebuild instead of accepting a cached graph")
	until := fs.String("until", "", `CEL condition that ends the watch, e.g. 'progress >= 0.5 || status == "FRESH_GRAPH"'`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return schema.NewError(schema.ErrCodeInvalidParameter, "watch needs exactly one paper id")
	}

	var cel *filter.CELEngine
	if *until != "" {
		var err error
		if cel, err = filter.NewCELEngine(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for result := range a.graphClient().GetGraphStream(ctx, fs.Arg(0), *fresh, true) {
		if result.Err != nil {
			return result.Err
		}
		if err := a.emit(result.Snapshot); err != nil {
			return err
		}
		if cel == nil {
			continue
		}

		scope, err := filter.SnapshotScope(result.Snapshot)
		if err != nil {
			return err
		}
		met, err := cel.Evaluate(ctx, *until, scope)
		if err != nil {
			return err
		}
		if done, ok := met.(bool); ok && done {
			return nil
		}
	}
	return nil
}
