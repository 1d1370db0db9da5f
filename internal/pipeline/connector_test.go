package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
)

type captureProvider struct {
	queries []domain.SearchQuery
	items   []domain.RawNewsItem
	err     error
}

func (p *captureProvider) Search(_ context.Context, q domain.SearchQuery) ([]domain.RawNewsItem, error) {
	p.queries = append(p.queries, q)
	return p.items, p.err
}

func testSearchConfig() SearchConfig {
	return SearchConfig{
		Query:        `"停電" AND "戶"`,
		Language:     "zh-Hant",
		Country:      "TW",
		MaxResults:   100,
		ExcludeSites: []string{"https://www.cw.com.tw"},
	}
}

func TestMonthConnector_FetchMonth(t *testing.T) {
	p := &captureProvider{items: []domain.RawNewsItem{{Title: "停電"}}}
	c := NewMonthConnector(p, testSearchConfig())

	items, err := c.FetchMonth(context.Background(), domain.YearMonth{Year: 2024, Month: time.February})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.Len(t, p.queries, 1)
	q := p.queries[0]
	assert.Equal(t, "2024-02-01", q.StartDate.String())
	assert.Equal(t, "2024-02-29", q.EndDate.String())
	assert.Equal(t, `"停電" AND "戶"`, q.Query)
	assert.Equal(t, "zh-Hant", q.Language)
	assert.Equal(t, "TW", q.Country)
	assert.Equal(t, 100, q.MaxResults)
	assert.Equal(t, []string{"https://www.cw.com.tw"}, q.ExcludeDomains)
}

func TestMonthConnector_WindowPerMonthLength(t *testing.T) {
	c := NewMonthConnector(&captureProvider{}, testSearchConfig())

	cases := map[domain.YearMonth]string{
		{Year: 2023, Month: time.February}:  "2023-02-28",
		{Year: 2024, Month: time.April}:     "2024-04-30",
		{Year: 2024, Month: time.December}:  "2024-12-31",
		{Year: 2018, Month: time.January}:   "2018-01-31",
		{Year: 2020, Month: time.September}: "2020-09-30",
	}
	for ym, last := range cases {
		q, err := c.Query(ym)
		require.NoError(t, err)
		assert.Equal(t, 1, q.StartDate.Day(), ym.String())
		assert.Equal(t, last, q.EndDate.String(), ym.String())
	}
}

func TestMonthConnector_InvalidMonth(t *testing.T) {
	p := &captureProvider{}
	c := NewMonthConnector(p, testSearchConfig())

	_, err := c.FetchMonth(context.Background(), domain.YearMonth{Year: 2024, Month: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, p.queries)
}

func TestMonthConnector_ProviderError(t *testing.T) {
	p := &captureProvider{err: domain.ErrProvider}
	c := NewMonthConnector(p, testSearchConfig())

	_, err := c.FetchMonth(context.Background(), domain.YearMonth{Year: 2024, Month: time.July})
	assert.ErrorIs(t, err, domain.ErrProvider)
}
