package s2

import "strings"

// PaperField selects which attributes the service includes in a paper
// response. Values are the wire names used in the fields parameter.
type PaperField string

const (
	FieldCorpusID                 PaperField = "corpusId"
	FieldExternalIDs              PaperField = "externalIds"
	FieldURL                      PaperField = "url"
	FieldTitle                    PaperField = "title"
	FieldAbstract                 PaperField = "abstract"
	FieldVenue                    PaperField = "venue"
	FieldPublicationVenue         PaperField = "publicationVenue"
	FieldYear                     PaperField = "year"
	FieldReferenceCount           PaperField = "referenceCount"
	FieldCitationCount            PaperField = "citationCount"
	FieldInfluentialCitationCount PaperField = "influentialCitationCount"
	FieldIsOpenAccess             PaperField = "isOpenAccess"
	FieldOpenAccessPDF            PaperField = "openAccessPdf"
	FieldFieldsOfStudy            PaperField = "fieldsOfStudy"
	FieldS2FieldsOfStudy          PaperField = "s2FieldsOfStudy"
	FieldPublicationTypes         PaperField = "publicationTypes"
	FieldPublicationDate          PaperField = "publicationDate"
	FieldJournal                  PaperField = "journal"
	FieldCitationStyles           PaperField = "citationStyles"
	FieldAuthors                  PaperField = "authors"
	FieldCitations                PaperField = "citations"
	FieldReferences               PaperField = "references"
	FieldEmbedding                PaperField = "embedding"
	FieldTldr                     PaperField = "tldr"
)

// AllPaperFields returns every selectable field in wire order. Note
// that citations, references, embedding and tldr are rejected by the
// bulk search endpoint.
func AllPaperFields() []PaperField {
	return []PaperField{
		FieldCorpusID, FieldExternalIDs, FieldURL, FieldTitle,
		FieldAbstract, FieldVenue, FieldPublicationVenue, FieldYear,
		FieldReferenceCount, FieldCitationCount, FieldInfluentialCitationCount,
		FieldIsOpenAccess, FieldOpenAccessPDF, FieldFieldsOfStudy,
		FieldS2FieldsOfStudy, FieldPublicationTypes, FieldPublicationDate,
		FieldJournal, FieldCitationStyles, FieldAuthors,
		FieldCitations, FieldReferences, FieldEmbedding, FieldTldr,
	}
}

// PublicationType restricts search results by publication kind.
type PublicationType string

const (
	TypeReview             PublicationType = "Review"
	TypeJournalArticle     PublicationType = "JournalArticle"
	TypeCaseReport         PublicationType = "CaseReport"
	TypeClinicalTrial      PublicationType = "ClinicalTrial"
	TypeConference         PublicationType = "Conference"
	TypeDataset            PublicationType = "Dataset"
	TypeEditorial          PublicationType = "Editorial"
	TypeLettersAndComments PublicationType = "LettersAndComments"
	TypeMetaAnalysis       PublicationType = "MetaAnalysis"
	TypeNews               PublicationType = "News"
	TypeStudy              PublicationType = "Study"
	TypeBook               PublicationType = "Book"
	TypeBookSection        PublicationType = "BookSection"
)

// FieldOfStudy restricts search results by academic category. Values
// are the service's display names, some of which contain spaces.
type FieldOfStudy string

const (
	ComputerScience             FieldOfStudy = "Computer Science"
	Medicine                    FieldOfStudy = "Medicine"
	Chemistry                   FieldOfStudy = "Chemistry"
	Biology                     FieldOfStudy = "Biology"
	MaterialsScience            FieldOfStudy = "Materials Science"
	Physics                     FieldOfStudy = "Physics"
	Geology                     FieldOfStudy = "Geology"
	Psychology                  FieldOfStudy = "Psychology"
	Art                         FieldOfStudy = "Art"
	History                     FieldOfStudy = "History"
	Geography                   FieldOfStudy = "Geography"
	Sociology                   FieldOfStudy = "Sociology"
	Business                    FieldOfStudy = "Business"
	PoliticalScience            FieldOfStudy = "Political Science"
	Economics                   FieldOfStudy = "Economics"
	Philosophy                  FieldOfStudy = "Philosophy"
	Mathematics                 FieldOfStudy = "Mathematics"
	Engineering                 FieldOfStudy = "Engineering"
	EnvironmentalScience        FieldOfStudy = "Environmental Science"
	AgriculturalAndFoodSciences FieldOfStudy = "Agricultural and Food Sciences"
	Education                   FieldOfStudy = "Education"
	Law                         FieldOfStudy = "Law"
	Linguistics                 FieldOfStudy = "Linguistics"
)

// joinFields comma-joins values for a list parameter, dropping
// duplicates while keeping first-occurrence order.
func joinFields[T ~string](values []T) string {
	seen := make(map[T]struct{}, len(values))
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ",")
}
