package s2

import (
	"strconv"
	"strings"
)

// Paper is the service's paper record. Fields not requested via the
// fields parameter come back zero-valued; pointer fields distinguish
// "not requested" from a real zero. Citations and References are only
// populated by endpoints that support nested data.
type Paper struct {
	// PaperID is the primary unique identifier, a 40-char hex hash.
	PaperID  string `json:"paperId"`
	CorpusID *int64 `json:"corpusId,omitempty"`
	// ExternalIDs maps the paper into external namespaces: ArXiv,
	// MAG, ACL, PubMed, Medline, PubMedCentral, DBLP and DOI.
	ExternalIDs *ExternalIDs `json:"externalIds,omitempty"`
	URL         string       `json:"url,omitempty"`
	Title       string       `json:"title,omitempty"`
	// Abstract may be missing for legal reasons even when the website
	// displays one.
	Abstract                 string            `json:"abstract,omitempty"`
	Venue                    string            `json:"venue,omitempty"`
	PublicationVenue         *PublicationVenue `json:"publicationVenue,omitempty"`
	Year                     *int              `json:"year,omitempty"`
	ReferenceCount           *int64            `json:"referenceCount,omitempty"`
	CitationCount            *int64            `json:"citationCount,omitempty"`
	InfluentialCitationCount *int64            `json:"influentialCitationCount,omitempty"`
	IsOpenAccess             *bool             `json:"isOpenAccess,omitempty"`
	OpenAccessPDF            *OpenAccessPDF    `json:"openAccessPdf,omitempty"`
	FieldsOfStudy            []FieldOfStudy    `json:"fieldsOfStudy,omitempty"`
	S2FieldsOfStudy          []S2FieldsOfStudy `json:"s2FieldsOfStudy,omitempty"`
	PublicationTypes         []PublicationType `json:"publicationTypes,omitempty"`
	// PublicationDate is YYYY-MM-DD; null for papers where only the
	// year is known.
	PublicationDate string          `json:"publicationDate,omitempty"`
	Journal         *Journal        `json:"journal,omitempty"`
	CitationStyles  *CitationStyles `json:"citationStyles,omitempty"`
	Authors         []Author        `json:"authors,omitempty"`
	Citations       []Paper         `json:"citations,omitempty"`
	References      []Paper         `json:"references,omitempty"`
	Embedding       *Embedding      `json:"embedding,omitempty"`
	Tldr            *Tldr           `json:"tldr,omitempty"`
}

// ExternalIDs holds a paper's identifiers in external sources. Keys
// are the service's own capitalization.
type ExternalIDs struct {
	CorpusID      *int64 `json:"CorpusId,omitempty"`
	ArXiv         string `json:"ArXiv,omitempty"`
	MAG           string `json:"MAG,omitempty"`
	ACL           string `json:"ACL,omitempty"`
	PubMed        string `json:"PubMed,omitempty"`
	PubMedCentral string `json:"PubMedCentral,omitempty"`
	DBLP          string `json:"DBLP,omitempty"`
	DOI           string `json:"DOI,omitempty"`
	Medline       string `json:"Medline,omitempty"`
}

// PublicationVenue describes the journal or conference a paper
// appeared in.
type PublicationVenue struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name,omitempty"`
	Type           string   `json:"type,omitempty"`
	AlternateNames []string `json:"alternate_names,omitempty"`
	ISSN           string   `json:"issn,omitempty"`
	URL            string   `json:"url,omitempty"`
}

// OpenAccessPDF points at a paper's public PDF. Status is the open
// access colour (gold, green, hybrid, bronze).
type OpenAccessPDF struct {
	URL             string `json:"url,omitempty"`
	Status          string `json:"status,omitempty"`
	License         string `json:"license,omitempty"`
	LegalDisclaimer string `json:"legalDisclaimer,omitempty"`
}

// S2FieldsOfStudy is one academic category attached to a paper, with
// the source that classified it (s2-fos-model or external).
type S2FieldsOfStudy struct {
	Category string `json:"category,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Journal holds the journal name, volume and page range.
type Journal struct {
	Name   string `json:"name,omitempty"`
	Volume string `json:"volume,omitempty"`
	Pages  string `json:"pages,omitempty"`
}

// CitationStyles carries ready-made bibliographical citations.
type CitationStyles struct {
	BibTeX string `json:"bibtex,omitempty"`
}

// Embedding is a vector representation of the paper from the SPECTER
// model family.
type Embedding struct {
	Model  string    `json:"model,omitempty"`
	Vector []float64 `json:"vector,omitempty"`
}

// Tldr is an auto-generated one-sentence paper summary.
type Tldr struct {
	Model string `json:"model,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Author is the author record embedded in paper responses.
type Author struct {
	AuthorID      string             `json:"authorId,omitempty"`
	ExternalIDs   *AuthorExternalIDs `json:"externalIds,omitempty"`
	URL           string             `json:"url,omitempty"`
	Name          string             `json:"name,omitempty"`
	Affiliations  []string           `json:"affiliations,omitempty"`
	Homepage      string             `json:"homepage,omitempty"`
	PaperCount    *int64             `json:"paperCount,omitempty"`
	CitationCount *int64             `json:"citationCount,omitempty"`
	HIndex        *int64             `json:"hIndex,omitempty"`
}

// AuthorExternalIDs holds the ORCID/DBLP identifiers of an author,
// when known.
type AuthorExternalIDs struct {
	ORCID string   `json:"ORCID,omitempty"`
	DBLP  []string `json:"DBLP,omitempty"`
}

// AutocompletePaper is a minimal paper record for interactive query
// completion.
type AutocompletePaper struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	// AuthorsYear is a single display string, e.g.
	// "J. Doe et al., 2019".
	AuthorsYear string `json:"authorsYear,omitempty"`
}

// Authors returns the author part of the AuthorsYear summary.
func (p AutocompletePaper) Authors() string {
	part, _, _ := strings.Cut(p.AuthorsYear, ",")
	return part
}

// Year parses the publication year out of the AuthorsYear summary.
// The second return is false when no year is present.
func (p AutocompletePaper) Year() (int, bool) {
	_, part, ok := strings.Cut(p.AuthorsYear, ",")
	if !ok {
		return 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(part))
	if err != nil {
		return 0, false
	}
	return year, true
}
