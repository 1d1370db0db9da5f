// Package googlenews searches the Google News RSS endpoint for articles
// published within a date window.
package googlenews

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
	"github.com/couchcryptid/outage-news-etl/internal/observability"
)

// DefaultBaseURL is the public Google News RSS root.
const DefaultBaseURL = "https://news.google.com/rss"

// Client runs date-bounded searches against Google News RSS.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a search client that issues at most requestsPerMinute
// requests. A non-positive rate disables limiting.
func NewClient(baseURL string, timeout time.Duration, requestsPerMinute int, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
		metrics: metrics,
	}
}

// Search returns the items matching q, without items from excluded sites and
// truncated to q.MaxResults. Rate limit, transport, status and feed errors
// wrap domain.ErrProvider.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) ([]domain.RawNewsItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %w", domain.ErrProvider, err)
	}

	items, err := c.doRequest(ctx, c.searchURL(q))
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.ProviderRequests.WithLabelValues("success").Inc()

	kept := make([]domain.RawNewsItem, 0, len(items))
	for _, item := range items {
		if excluded(item.Publisher.Href, q.ExcludeDomains) {
			c.metrics.ItemsExcluded.Inc()
			continue
		}
		kept = append(kept, item)
	}
	if q.MaxResults > 0 && len(kept) > q.MaxResults {
		c.logger.Debug("search results truncated", "returned", len(kept), "max", q.MaxResults)
		kept = kept[:q.MaxResults]
	}
	return kept, nil
}

func (c *Client) searchURL(q domain.SearchQuery) string {
	terms := fmt.Sprintf("%s after:%s before:%s", q.Query, q.StartDate, q.EndDate)
	params := url.Values{
		"q":    {terms},
		"hl":   {q.Language},
		"gl":   {q.Country},
		"ceid": {q.Country + ":" + q.Language},
	}
	return c.baseURL + "/search?" + params.Encode()
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.RawNewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrProvider, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: search request: %w", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProvider, resp.StatusCode, body)
	}

	feed, err := (&rss.Parser{}).Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed: %w", domain.ErrProvider, err)
	}

	items := make([]domain.RawNewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, toRawItem(it))
	}
	return items, nil
}

func toRawItem(it *rss.Item) domain.RawNewsItem {
	raw := domain.RawNewsItem{
		Title:         it.Title,
		Description:   it.Description,
		PublishedDate: it.PubDate,
		URL:           it.Link,
	}
	if it.Source != nil {
		raw.Publisher = domain.Publisher{Name: it.Source.Title, Href: it.Source.URL}
	}
	return raw
}

// excluded reports whether href belongs to one of sites, compared by host.
func excluded(href string, sites []string) bool {
	host := hostOf(href)
	if host == "" {
		return false
	}
	for _, s := range sites {
		if strings.EqualFold(host, hostOf(s)) {
			return true
		}
	}
	return false
}

func hostOf(s string) string {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return u.Host
}
