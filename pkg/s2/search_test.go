package s2

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendis/papergraph/pkg/schema"
)

func requireInvalidParameter(t *testing.T, err error) {
	t.Helper()
	var pgErr *schema.PapergraphError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, schema.ErrCodeInvalidParameter, pgErr.Code)
}

func mustDate(t *testing.T, year int, month time.Month, day int) *Date {
	t.Helper()
	d, err := NewDate(year, month, day)
	require.NoError(t, err)
	return &d
}

func TestDate_String(t *testing.T) {
	assert.Equal(t, "2019-03-05", mustDate(t, 2019, time.March, 5).String())

	m, err := NewMonth(2020, time.June)
	require.NoError(t, err)
	assert.Equal(t, "2020-06", m.String())
}

func TestDate_RejectsNonCalendarDates(t *testing.T) {
	_, err := NewDate(2021, time.February, 30)
	requireInvalidParameter(t, err)

	_, err = NewDate(2019, time.February, 29)
	requireInvalidParameter(t, err)

	_, err = NewMonth(2021, time.Month(13))
	requireInvalidParameter(t, err)

	_, err = NewDate(2020, time.February, 29)
	assert.NoError(t, err)
}

func TestSearchParams_QueryStringMinimal(t *testing.T) {
	p := SearchParams{Query: "covid vaccination"}
	qs, err := p.queryString()
	require.NoError(t, err)
	assert.Equal(t, "query=covid+vaccination", qs)
}

func TestSearchParams_QueryStringFull(t *testing.T) {
	p := SearchParams{
		Query: "quantum computing",
		SearchFilters: SearchFilters{
			Fields:              []PaperField{FieldTitle, FieldYear},
			PublicationTypes:    []PublicationType{TypeJournalArticle, TypeConference},
			OpenAccessPDF:       true,
			MinCitationCount:    10,
			PublicationDateFrom: mustDate(t, 2016, time.March, 5),
			PublicationDateTo:   mustDate(t, 2020, time.June, 6),
			YearFrom:            2016,
			YearTo:              2020,
			FieldsOfStudy:       []FieldOfStudy{ComputerScience},
			Venues:              []string{"Nature", "N. Engl. J. Med."},
		},
		Offset: 100,
		Limit:  50,
	}
	qs, err := p.queryString()
	require.NoError(t, err)
	assert.Equal(t, "query=quantum+computing"+
		"&fields=title,year"+
		"&publicationTypes=JournalArticle,Conference"+
		"&openAccessPdf"+
		"&minCitationCount=10"+
		"&publicationDate=2016-03-05:2020-06-06"+
		"&year=2016-2020"+
		"&fieldsOfStudy=Computer+Science"+
		"&venue=Nature,N.+Engl.+J.+Med."+
		"&offset=100&limit=50", qs)
}

func TestSearchParams_YearRanges(t *testing.T) {
	cases := []struct {
		from, to int
		want     string
	}{
		{2019, 2019, "query=q&year=2019"},
		{2016, 2020, "query=q&year=2016-2020"},
		{2010, 0, "query=q&year=2010-"},
		{0, 2015, "query=q&year=-2015"},
		{0, 0, "query=q"},
	}
	for _, tc := range cases {
		p := SearchParams{Query: "q", SearchFilters: SearchFilters{YearFrom: tc.from, YearTo: tc.to}}
		qs, err := p.queryString()
		require.NoError(t, err)
		assert.Equal(t, tc.want, qs)
	}
}

func TestParseYearRange(t *testing.T) {
	cases := []struct {
		spec     string
		from, to int
	}{
		{"2019", 2019, 2019},
		{"2016-2020", 2016, 2020},
		{"2010-", 2010, 0},
		{"-2015", 0, 2015},
	}
	for _, tc := range cases {
		from, to, err := ParseYearRange(tc.spec)
		require.NoError(t, err, tc.spec)
		assert.Equal(t, tc.from, from, tc.spec)
		assert.Equal(t, tc.to, to, tc.spec)
	}
}

func TestParseYearRange_Invalid(t *testing.T) {
	for _, spec := range []string{"", "-", "soon", "20x0-2020", "2020-1999"} {
		_, _, err := ParseYearRange(spec)
		requireInvalidParameter(t, err)
	}
}

func TestSearchParams_OpenEndedDates(t *testing.T) {
	p := SearchParams{Query: "q", SearchFilters: SearchFilters{PublicationDateFrom: mustDate(t, 1981, time.August, 25)}}
	qs, err := p.queryString()
	require.NoError(t, err)
	assert.Equal(t, "query=q&publicationDate=1981-08-25:", qs)

	m, err := NewMonth(2015, time.January)
	require.NoError(t, err)
	p = SearchParams{Query: "q", SearchFilters: SearchFilters{PublicationDateTo: &m}}
	qs, err = p.queryString()
	require.NoError(t, err)
	assert.Equal(t, "query=q&publicationDate=:2015-01", qs)
}

func TestSearchParams_Validation(t *testing.T) {
	_, err := (&SearchParams{Query: "  "}).queryString()
	requireInvalidParameter(t, err)

	_, err = (&SearchParams{Query: "q", SearchFilters: SearchFilters{YearFrom: 2021, YearTo: 2019}}).queryString()
	requireInvalidParameter(t, err)

	_, err = (&SearchParams{Query: "q", Limit: maxSearchLimit + 1}).queryString()
	requireInvalidParameter(t, err)

	_, err = (&SearchParams{Query: "q", Offset: -1}).queryString()
	requireInvalidParameter(t, err)

	_, err = (&SearchParams{Query: "q", SearchFilters: SearchFilters{MinCitationCount: -5}}).queryString()
	requireInvalidParameter(t, err)
}
