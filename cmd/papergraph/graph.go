package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/rendis/papergraph/internal/logging"
	"github.com/rendis/papergraph/internal/pool"
	"github.com/rendis/papergraph/pkg/schema"
)

// runGraph retrieves the graph for each id, waiting for builds to
// finish. Multiple ids fan out over a bounded worker pool; each
// retrieval is an independent session and documents are written in
// completion order.
func (a *app) runGraph(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	fresh := fs.Bool("fresh", false, "force a fresh rebuild instead of accepting a cached graph")
	jqExpr := fs.String("jq", "", "jq expression applied to each graph document")
	concurrency := fs.Int("concurrency", a.cfg.PoolSize, "concurrent retrievals when multiple ids are given")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids := fs.Args()
	if len(ids) == 0 {
		return schema.NewError(schema.ErrCodeInvalidParameter, "graph needs at least one paper id")
	}

	client := a.graphClient()
	workers := pool.New(*concurrency)
	defer workers.Shutdown()

	for _, id := range ids {
		err := workers.Submit(ctx, func(ctx context.Context) error {
			ctx = logging.WithPaperID(ctx, id)
			resp, fetchErr := client.GetGraph(ctx, id, *fresh)
			if fetchErr != nil {
				a.logger.ErrorContext(ctx, "graph retrieval failed", slog.Any("error", fetchErr))
				return fetchErr
			}

			var doc any = resp
			if *jqExpr != "" {
				out, jqErr := a.applyJQ(ctx, *jqExpr, resp)
				if jqErr != nil {
					a.logger.ErrorContext(ctx, "jq evaluation failed", slog.Any("error", jqErr))
					return jqErr
				}
				doc = out
			}
			return a.emit(doc)
		})
		if err != nil {
			// Submit only fails when ctx is done or the pool is shut down.
			break
		}
	}
	workers.Wait()

	if failed := workers.Metrics().Failed; failed > 0 {
		return schema.NewErrorf(schema.ErrCodeRequestFailed,
			"%d of %d retrievals failed", failed, len(ids))
	}
	return ctx.Err()
}
