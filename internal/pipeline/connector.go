package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
)

// Provider runs one bounded news search.
type Provider interface {
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.RawNewsItem, error)
}

// SearchConfig holds the search parameters shared by every month.
type SearchConfig struct {
	Query        string
	Language     string
	Country      string
	MaxResults   int
	ExcludeSites []string
}

// MonthConnector fetches the provider items published within one calendar month.
type MonthConnector struct {
	provider Provider
	cfg      SearchConfig
}

// NewMonthConnector creates a connector issuing searches through provider.
func NewMonthConnector(provider Provider, cfg SearchConfig) *MonthConnector {
	return &MonthConnector{provider: provider, cfg: cfg}
}

// Query builds the search for ym, spanning its first through last day.
func (c *MonthConnector) Query(ym domain.YearMonth) (domain.SearchQuery, error) {
	if err := ym.Validate(); err != nil {
		return domain.SearchQuery{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return domain.SearchQuery{
		Query:          c.cfg.Query,
		Language:       c.cfg.Language,
		Country:        c.cfg.Country,
		StartDate:      ym.FirstDay(),
		EndDate:        ym.LastDay(),
		MaxResults:     c.cfg.MaxResults,
		ExcludeDomains: c.cfg.ExcludeSites,
	}, nil
}

// FetchMonth returns the raw items for ym. Provider failures are returned
// unchanged; nothing is retried.
func (c *MonthConnector) FetchMonth(ctx context.Context, ym domain.YearMonth) ([]domain.RawNewsItem, error) {
	q, err := c.Query(ym)
	if err != nil {
		return nil, err
	}
	return c.provider.Search(ctx, q)
}
