package schema

import (
	"encoding/json"
	"fmt"
)

// GraphResponse is one polling snapshot for a graph request.
type GraphResponse struct {
	Status            GraphStatus `json:"status"`
	GraphJSON         *Graph      `json:"graph_json,omitempty"`
	Progress          *float64    `json:"progress,omitempty"`
	RemainingRequests *int64      `json:"remaining_requests,omitempty"`
}

// Graph is the service's graph document. Node and edge payloads are carried
// and counted but their substance is never validated client-side.
type Graph struct {
	StartID           string               `json:"start_id"`
	Nodes             map[string]PaperNode `json:"nodes"`
	Edges             []GraphEdge          `json:"edges"`
	Citations         []GraphEdge          `json:"citations"`
	References        []GraphEdge          `json:"references"`
	Authors           []json.RawMessage    `json:"authors"`
	Parameters        GraphParameters      `json:"parameters"`
	CurrentCorpusDate string               `json:"current_corpus_date"`
	CreationTime      string               `json:"creation_time"`
}

// StartNode returns the node the graph was built around, if present.
func (g *Graph) StartNode() (*PaperNode, bool) {
	n, ok := g.Nodes[g.StartID]
	if !ok {
		return nil, false
	}
	return &n, true
}

// GraphEdge is the wire tuple [source, target, weight]. Similarity edges
// carry a weight; citation and reference edges omit it.
type GraphEdge struct {
	Source string
	Target string
	Weight float64
}

func (e *GraphEdge) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) < 2 {
		return fmt.Errorf("edge tuple has %d elements, want at least 2", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &e.Source); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[1], &e.Target); err != nil {
		return err
	}
	if len(tuple) > 2 {
		if err := json.Unmarshal(tuple[2], &e.Weight); err != nil {
			return err
		}
	}
	return nil
}

func (e GraphEdge) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Source, e.Target, e.Weight})
}

// GraphParameters describes how the service built the graph.
type GraphParameters struct {
	PaperID          string `json:"paper_id"`
	TotalNodes       int    `json:"total_nodes"`
	NumCommons       int    `json:"num_commons"`
	MaxLoad          int    `json:"max_load"`
	NumNeighbors     int    `json:"num_neighbors"`
	SpringIterations int    `json:"spring_iterations"`
}

// PaperNode is one paper in a retrieved graph.
type PaperNode struct {
	ID               string       `json:"id"`
	PaperID          string       `json:"paper_id"`
	Title            string       `json:"title"`
	Authors          []NodeAuthor `json:"authors,omitempty"`
	Year             *int         `json:"year,omitempty"`
	Venue            string       `json:"venue,omitempty"`
	JournalName      string       `json:"journal_name,omitempty"`
	JournalVolume    string       `json:"journal_volume,omitempty"`
	JournalPages     string       `json:"journal_pages,omitempty"`
	DOI              string       `json:"doi,omitempty"`
	PMID             string       `json:"pmid,omitempty"`
	ArxivID          string       `json:"arxiv_id,omitempty"`
	MagID            string       `json:"mag_id,omitempty"`
	Abstract         string       `json:"abstract,omitempty"`
	Tldr             string       `json:"tldr,omitempty"`
	URL              string       `json:"url,omitempty"`
	PDFURLs          []string     `json:"pdf_urls,omitempty"`
	IsOpenAccess     *bool        `json:"is_open_access,omitempty"`
	FieldsOfStudy    []string     `json:"fields_of_study,omitempty"`
	PublicationTypes []string     `json:"publication_types,omitempty"`
	PublicationDate  string       `json:"publication_date,omitempty"`
	CitationsLength  int          `json:"citations_length"`
	ReferencesLength int          `json:"references_length"`
	NumberOfAuthors  int          `json:"number_of_authors"`
	CorpusID         *int64       `json:"corpus_id,omitempty"`
}

// NodeAuthor is an author entry on a graph node.
type NodeAuthor struct {
	Name string   `json:"name"`
	IDs  []string `json:"ids,omitempty"`
}
