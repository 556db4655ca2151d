package s2

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// PaperID identifies a paper in one of the namespaces the service
// resolves. The zero value is not a valid identifier; use one of the
// constructors.
type PaperID struct {
	prefix string
	value  string
}

// S2ID wraps a primary Semantic Scholar identifier, e.g.
// 649def34f8be52c8b66281af98ae884c09aef38b.
func S2ID(id string) PaperID {
	return PaperID{value: id}
}

// CorpusID wraps a secondary Semantic Scholar numeric identifier.
func CorpusID(id int64) PaperID {
	return PaperID{prefix: "CorpusId", value: strconv.FormatInt(id, 10)}
}

// DOI wraps a Digital Object Identifier, e.g. 10.18653/v1/N18-3011.
func DOI(id string) PaperID {
	return PaperID{prefix: "DOI", value: id}
}

// ArXiv wraps an arXiv identifier, e.g. 2106.15928.
func ArXiv(id string) PaperID {
	return PaperID{prefix: "ARXIV", value: id}
}

// MAG wraps a Microsoft Academic Graph identifier.
func MAG(id string) PaperID {
	return PaperID{prefix: "MAG", value: id}
}

// ACL wraps an Association for Computational Linguistics identifier.
func ACL(id string) PaperID {
	return PaperID{prefix: "ACL", value: id}
}

// PMID wraps a PubMed identifier.
func PMID(id string) PaperID {
	return PaperID{prefix: "PMID", value: id}
}

// PMCID wraps a PubMed Central identifier.
func PMCID(id string) PaperID {
	return PaperID{prefix: "PMCID", value: id}
}

// PaperURL wraps the URL of a paper page on semanticscholar.org,
// arxiv.org, aclweb.org, acm.org or biorxiv.org.
func PaperURL(u string) PaperID {
	return PaperID{prefix: "URL", value: u}
}

// ParsePaperID accepts an identifier in its serialized form, either a
// bare primary id or a prefixed one like DOI:10.18653/v1/N18-3011.
// Unrecognized prefixes are kept as part of a primary id, so parsing
// always round-trips through String.
func ParsePaperID(s string) PaperID {
	prefix, value, found := strings.Cut(s, ":")
	if found {
		switch prefix {
		case "CorpusId", "DOI", "ARXIV", "MAG", "ACL", "PMID", "PMCID", "URL":
			return PaperID{prefix: prefix, value: value}
		}
	}
	return PaperID{value: s}
}

// String renders the prefixed form the service expects in paths and
// batch request bodies. Primary identifiers have no prefix.
func (id PaperID) String() string {
	if id.prefix == "" {
		return id.value
	}
	return id.prefix + ":" + id.value
}

// IsZero reports whether the identifier is unset.
func (id PaperID) IsZero() bool {
	return id.prefix == "" && id.value == ""
}

// MarshalJSON emits the identifier as its string form.
func (id PaperID) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(id.String())
}
