// Package mcp exposes the graph and scholar clients as an MCP server
// over stdio, so agents can pull paper graphs and search results as
// tool calls.
package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rendis/papergraph/internal/filter"
	"github.com/rendis/papergraph/pkg/cpapers"
	"github.com/rendis/papergraph/pkg/s2"
	"github.com/rendis/papergraph/pkg/schema"
)

// GraphClient is the slice of the graph service the tools need.
type GraphClient interface {
	GetGraph(ctx context.Context, paperID string, freshOnly bool) (*schema.GraphResponse, error)
	RemainingUsages(ctx context.Context) (int64, error)
	FreeAccessPapers(ctx context.Context) ([]string, error)
}

// ScholarClient is the slice of the scholar service the tools need.
type ScholarClient interface {
	Search(ctx context.Context, params s2.SearchParams) (*s2.SearchResponse, error)
	MatchPaper(ctx context.Context, params s2.TitleParams) (*s2.MatchedPaper, error)
	Autocomplete(ctx context.Context, query string) ([]s2.AutocompletePaper, error)
}

var (
	_ GraphClient   = (*cpapers.Client)(nil)
	_ ScholarClient = (*s2.Client)(nil)
)

// PapergraphServerDeps holds the dependencies for creating a PapergraphServer.
type PapergraphServerDeps struct {
	Graph   GraphClient
	Scholar ScholarClient
	JQ      *filter.GoJQEngine
	Logger  *slog.Logger
}

// PapergraphServer wraps an MCP server with papergraph-specific tool handlers.
type PapergraphServer struct {
	graph     GraphClient
	scholar   ScholarClient
	jq        *filter.GoJQEngine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewPapergraphServer creates a new PapergraphServer with all 7 tools registered.
func NewPapergraphServer(deps PapergraphServerDeps) *PapergraphServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	jq := deps.JQ
	if jq == nil {
		jq = filter.NewGoJQEngine()
	}

	s := &PapergraphServer{
		graph:   deps.Graph,
		scholar: deps.Scholar,
		jq:      jq,
		logger:  logger,
	}

	mcpSrv := server.NewMCPServer(
		"papergraph",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Papergraph connects agents to academic paper graphs. Use papergraph.get_graph to retrieve a paper's similarity graph, papergraph.get_paper_info for the origin paper's details, papergraph.get_remaining_usages to check quota, papergraph.get_free_access_papers for ids that need no key, papergraph.search_papers for relevance search, papergraph.match_paper to resolve a title, and papergraph.autocomplete for typeahead suggestions."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *PapergraphServer) Serve(ctx context.Context) error {
	s.logger.InfoContext(ctx, "mcp server listening on stdio")
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *PapergraphServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns the 7 registered MCP tools as ServerTool entries.
func (s *PapergraphServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: getGraphTool(), Handler: s.handleGetGraph},
		{Tool: getPaperInfoTool(), Handler: s.handleGetPaperInfo},
		{Tool: getRemainingUsagesTool(), Handler: s.handleGetRemainingUsages},
		{Tool: getFreeAccessPapersTool(), Handler: s.handleGetFreeAccessPapers},
		{Tool: searchPapersTool(), Handler: s.handleSearchPapers},
		{Tool: matchPaperTool(), Handler: s.handleMatchPaper},
		{Tool: autocompleteTool(), Handler: s.handleAutocomplete},
	}
}

// --- Tool definitions ---

func getGraphTool() mcp.Tool {
	return mcp.NewTool("papergraph.get_graph",
		mcp.WithDescription("Retrieve the similarity graph built around a paper. Returns build status and a structural summary with the origin paper's headline fields"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Semantic Scholar ID of the paper to build the graph around")),
		mcp.WithBoolean("fresh_only", mcp.Description("Force a fresh rebuild instead of accepting a cached graph")),
		mcp.WithString("jq", mcp.Description("Optional jq expression applied to the summary document")),
	)
}

func getPaperInfoTool() mcp.Tool {
	return mcp.NewTool("papergraph.get_paper_info",
		mcp.WithDescription("Get detailed information about a paper from its graph, including title, authors, abstract, and metadata"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Semantic Scholar ID of the paper")),
		mcp.WithBoolean("fresh_only", mcp.Description("Force a fresh rebuild instead of accepting a cached graph")),
	)
}

func getRemainingUsagesTool() mcp.Tool {
	return mcp.NewTool("papergraph.get_remaining_usages",
		mcp.WithDescription("Get the remaining number of graph requests available for the configured access token"),
	)
}

func getFreeAccessPapersTool() mcp.Tool {
	return mcp.NewTool("papergraph.get_free_access_papers",
		mcp.WithDescription("List paper IDs whose graphs are retrievable without an access token"),
	)
}

func searchPapersTool() mcp.Tool {
	return mcp.NewTool("papergraph.search_papers",
		mcp.WithDescription("Search papers by relevance. Plain-text query matched against title and abstract"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Plain-text search query (no special syntax)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results to return (up to 100)")),
		mcp.WithNumber("offset", mcp.Description("Number of results to skip for pagination")),
		mcp.WithString("year", mcp.Description("Publication year or range: 2019, 2016-2020, 2010-, -2015")),
		mcp.WithNumber("min_citation_count", mcp.Description("Only return papers with at least this many citations")),
		mcp.WithBoolean("open_access_pdf", mcp.Description("Only return papers with a freely available PDF")),
	)
}

func matchPaperTool() mcp.Tool {
	return mcp.NewTool("papergraph.match_paper",
		mcp.WithDescription("Find the paper whose title most closely matches the given text"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Paper title to match")),
	)
}

func autocompleteTool() mcp.Tool {
	return mcp.NewTool("papergraph.autocomplete",
		mcp.WithDescription("Suggest paper completions for a partial query, for typeahead interfaces"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Partial paper title or query text")),
	)
}
