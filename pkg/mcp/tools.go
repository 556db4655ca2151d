package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rendis/papergraph/internal/filter"
	"github.com/rendis/papergraph/internal/logging"
	"github.com/rendis/papergraph/pkg/s2"
	"github.com/rendis/papergraph/pkg/schema"
)

// handleGetGraph retrieves a paper's graph and returns a structural
// summary, optionally reshaped through a jq expression.
func (s *PapergraphServer) handleGetGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}
	ctx = logging.WithTool(ctx, "papergraph.get_graph")

	resp, getErr := s.graph.GetGraph(ctx, id, req.GetBool("fresh_only", false))
	if getErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph retrieval failed: %v", getErr)), nil
	}

	summary := graphSummary(resp)

	if jqExpr := req.GetString("jq", ""); jqExpr != "" {
		// Round-trip to plain JSON values so jq can consume the document.
		doc, scopeErr := filter.DocumentScope(summary)
		if scopeErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("jq input failed: %v", scopeErr)), nil
		}
		out, jqErr := s.jq.Evaluate(ctx, jqExpr, doc)
		if jqErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("jq evaluation failed: %v", jqErr)), nil
		}
		return marshalResult(out)
	}

	return marshalResult(summary)
}

// handleGetPaperInfo returns the origin paper's full node document from
// its graph, or an error document when the graph is not available yet.
func (s *PapergraphServer) handleGetPaperInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}
	ctx = logging.WithTool(ctx, "papergraph.get_paper_info")

	resp, getErr := s.graph.GetGraph(ctx, id, req.GetBool("fresh_only", false))
	if getErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("paper info retrieval failed: %v", getErr)), nil
	}

	graph := resp.GraphJSON
	if graph == nil {
		return marshalResult(map[string]any{
			"error":    fmt.Sprintf("graph not available, status %s", resp.Status),
			"status":   resp.Status,
			"progress": resp.Progress,
		})
	}

	node, ok := graph.Nodes[graph.StartID]
	if !ok {
		return marshalResult(map[string]any{
			"error": fmt.Sprintf("paper %s not found in graph", id),
		})
	}
	return marshalResult(node)
}

// handleGetRemainingUsages reports the access token's remaining quota.
func (s *PapergraphServer) handleGetRemainingUsages(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = logging.WithTool(ctx, "papergraph.get_remaining_usages")

	remaining, err := s.graph.RemainingUsages(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("usage lookup failed: %v", err)), nil
	}
	return marshalResult(map[string]any{"remaining_usages": remaining})
}

// handleGetFreeAccessPapers lists the ids retrievable without a token.
func (s *PapergraphServer) handleGetFreeAccessPapers(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = logging.WithTool(ctx, "papergraph.get_free_access_papers")

	papers, err := s.graph.FreeAccessPapers(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("free papers lookup failed: %v", err)), nil
	}
	return marshalResult(map[string]any{
		"free_access_papers": papers,
		"count":              len(papers),
	})
}

// handleSearchPapers runs a relevance search against the scholar service.
func (s *PapergraphServer) handleSearchPapers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}
	ctx = logging.WithTool(ctx, "papergraph.search_papers")

	params := s2.SearchParams{
		Query:  query,
		Limit:  req.GetInt("limit", 0),
		Offset: req.GetInt("offset", 0),
	}
	params.MinCitationCount = req.GetInt("min_citation_count", 0)
	params.OpenAccessPDF = req.GetBool("open_access_pdf", false)
	if spec := req.GetString("year", ""); spec != "" {
		from, to, parseErr := s2.ParseYearRange(spec)
		if parseErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid year: %v", parseErr)), nil
		}
		params.YearFrom, params.YearTo = from, to
	}

	resp, searchErr := s.scholar.Search(ctx, params)
	if searchErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", searchErr)), nil
	}
	return marshalResult(resp)
}

// handleMatchPaper resolves a title to the closest matching paper.
func (s *PapergraphServer) handleMatchPaper(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil
	}
	ctx = logging.WithTool(ctx, "papergraph.match_paper")

	match, matchErr := s.scholar.MatchPaper(ctx, s2.TitleParams{Query: title})
	if matchErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("title match failed: %v", matchErr)), nil
	}
	if match == nil {
		return marshalResult(map[string]any{
			"matched": false,
			"title":   title,
		})
	}
	return marshalResult(match)
}

// handleAutocomplete returns typeahead suggestions for a partial query.
func (s *PapergraphServer) handleAutocomplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}
	ctx = logging.WithTool(ctx, "papergraph.autocomplete")

	matches, acErr := s.scholar.Autocomplete(ctx, query)
	if acErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("autocomplete failed: %v", acErr)), nil
	}
	return marshalResult(map[string]any{"matches": matches})
}

// --- Internal helpers ---

// graphSummary condenses a graph response into the structural summary
// document: status, progress, counts, build parameters, and the origin
// paper's headline fields.
func graphSummary(resp *schema.GraphResponse) map[string]any {
	doc := map[string]any{"status": resp.Status}
	if resp.Progress != nil {
		doc["progress"] = *resp.Progress
	}
	if resp.RemainingRequests != nil {
		doc["remaining_requests"] = *resp.RemainingRequests
	}

	graph := resp.GraphJSON
	if graph == nil {
		return doc
	}
	doc["graph"] = map[string]any{
		"start_id":            graph.StartID,
		"nodes_count":         len(graph.Nodes),
		"edges_count":         len(graph.Edges),
		"citations_count":     len(graph.Citations),
		"references_count":    len(graph.References),
		"authors_count":       len(graph.Authors),
		"parameters":          graph.Parameters,
		"current_corpus_date": graph.CurrentCorpusDate,
		"creation_time":       graph.CreationTime,
	}
	if start, ok := graph.Nodes[graph.StartID]; ok {
		doc["start_paper"] = startPaperSummary(start)
	}
	return doc
}

// startPaperSummary trims an origin node down to its headline fields.
func startPaperSummary(node schema.PaperNode) map[string]any {
	names := make([]string, 0, len(node.Authors))
	for _, a := range node.Authors {
		name := a.Name
		if name == "" {
			name = "Unknown"
		}
		names = append(names, name)
	}
	return map[string]any{
		"id":                node.ID,
		"title":             node.Title,
		"authors":           names,
		"year":              node.Year,
		"venue":             node.Venue,
		"journal_name":      node.JournalName,
		"doi":               node.DOI,
		"arxiv_id":          node.ArxivID,
		"abstract":          node.Abstract,
		"url":               node.URL,
		"is_open_access":    node.IsOpenAccess,
		"citations_length":  node.CitationsLength,
		"references_length": node.ReferencesLength,
	}
}

// marshalResult converts a value to a JSON tool result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}
