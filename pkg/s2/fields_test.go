package s2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinFields_AllPaperFields(t *testing.T) {
	want := "corpusId,externalIds,url,title,abstract,venue,publicationVenue,year," +
		"referenceCount,citationCount,influentialCitationCount,isOpenAccess,openAccessPdf," +
		"fieldsOfStudy,s2FieldsOfStudy,publicationTypes,publicationDate,journal," +
		"citationStyles,authors,citations,references,embedding,tldr"
	assert.Equal(t, want, joinFields(AllPaperFields()))
}

func TestJoinFields_DropsDuplicatesKeepsOrder(t *testing.T) {
	got := joinFields([]PaperField{FieldTitle, FieldYear, FieldTitle, FieldAbstract, FieldYear})
	assert.Equal(t, "title,year,abstract", got)
}

func TestJoinFields_PublicationTypesAndCategories(t *testing.T) {
	assert.Equal(t, "JournalArticle,CaseReport",
		joinFields([]PublicationType{TypeJournalArticle, TypeCaseReport}))
	assert.Equal(t, "Computer Science,Agricultural and Food Sciences",
		joinFields([]FieldOfStudy{ComputerScience, AgriculturalAndFoodSciences}))
}

func TestJoinFields_Empty(t *testing.T) {
	assert.Empty(t, joinFields([]PaperField(nil)))
}
