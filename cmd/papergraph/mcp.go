package main

import (
	"context"
	"flag"

	"github.com/rendis/papergraph/pkg/mcp"
)

// runMCP serves the MCP tools over stdio until the context is
// cancelled or stdin closes.
func (a *app) runMCP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv := mcp.NewPapergraphServer(mcp.PapergraphServerDeps{
		Graph:   a.graphClient(),
		Scholar: a.scholarClient(),
		JQ:      a.jq,
		Logger:  a.logger,
	})
	return srv.Serve(ctx)
}
