// Command papergraph is a CLI for the Connected Papers graph service
// and the Semantic Scholar academic graph. Documents go to stdout as
// JSON, one per line; logs go to stderr.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/rendis/papergraph/internal/filter"
	"github.com/rendis/papergraph/pkg/cpapers"
	"github.com/rendis/papergraph/pkg/s2"
	"github.com/rendis/papergraph/pkg/schema"
)

const usageText = `papergraph: paper graphs and scholarly search from the command line

Usage: papergraph <command> [flags] [args]

Graph service:
  graph <id>...      retrieve graphs, waiting for the build to finish
  status <id>        report the current build state once
  watch <id>         stream every build snapshot as it arrives
  usage              remaining graph requests for the access token
  free-papers        paper ids retrievable without a token

Scholar service:
  search <query>     relevance search over papers
  match <title>      closest paper for a title
  autocomplete <q>   typeahead suggestions
  paper <id>         single paper lookup (supports DOI:, ARXIV:, ... prefixes)
  batch <id>...      bulk paper lookup, up to 500 ids

Other:
  mcp                serve the MCP tools over stdio
  version            print the build version

Run "papergraph <command> -h" for command flags. Configuration layers:
defaults, ~/.papergraph/settings.json, then PAPERGRAPH_* environment
variables; CONNECTED_PAPERS_API_KEY and SEMANTIC_SCHOLAR_API_KEY are
honored as well.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usageText)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	switch command {
	case "help", "-h", "--help":
		fmt.Println(usageText)
		return
	case "version", "-version", "--version":
		printVersion()
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "papergraph: %v\n", err)
		os.Exit(1)
	}

	a := &app{
		cfg:    cfg,
		logger: newLogger(cfg),
		out:    os.Stdout,
		jq:     filter.NewGoJQEngine(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, command, args); err != nil {
		a.logger.Error("command failed", slog.String("command", command), slog.Any("error", err))
		os.Exit(1)
	}
}

// app carries the configuration and shared machinery of one invocation.
type app struct {
	cfg    Config
	logger *slog.Logger
	jq     *filter.GoJQEngine

	mu  sync.Mutex
	out io.Writer
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "graph":
		return a.runGraph(ctx, args)
	case "status":
		return a.runStatus(ctx, args)
	case "watch":
		return a.runWatch(ctx, args)
	case "usage":
		return a.runUsage(ctx, args)
	case "free-papers":
		return a.runFreePapers(ctx, args)
	case "search":
		return a.runSearch(ctx, args)
	case "match":
		return a.runMatch(ctx, args)
	case "autocomplete":
		return a.runAutocomplete(ctx, args)
	case "paper":
		return a.runPaper(ctx, args)
	case "batch":
		return a.runBatch(ctx, args)
	case "mcp":
		return a.runMCP(ctx, args)
	default:
		fmt.Fprintln(os.Stderr, usageText)
		return schema.NewErrorf(schema.ErrCodeInvalidParameter, "unknown command %q", command)
	}
}

func (a *app) graphClient() *cpapers.Client {
	return cpapers.NewClient(cpapers.Config{
		APIKey:  a.cfg.APIKey,
		BaseURL: a.cfg.BaseURL,
		Timeout: a.cfg.timeout(),
		Logger:  a.logger,
	})
}

func (a *app) scholarClient() *s2.Client {
	return s2.NewClient(s2.Config{
		APIKey:  a.cfg.S2APIKey,
		BaseURL: a.cfg.S2BaseURL,
		Timeout: a.cfg.timeout(),
		Logger:  a.logger,
	})
}

// emit writes one JSON document per line to the output. Concurrent
// sessions serialize on the lock so lines never interleave.
func (a *app) emit(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return schema.NewError(schema.ErrCodeDecode, "failed to encode output").WithCause(err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// applyJQ reshapes a document through a jq expression.
func (a *app) applyJQ(ctx context.Context, expression string, v any) (any, error) {
	doc, err := filter.DocumentScope(v)
	if err != nil {
		return nil, err
	}
	return a.jq.Evaluate(ctx, expression, doc)
}
