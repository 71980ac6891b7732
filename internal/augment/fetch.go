package augment

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/pfrederiksen/gora-search/internal/logger"
)

const (
	UserAgent    = "gora-search/1.0"
	FetchTimeout = 30 * time.Second
)

// Fetcher downloads directory pages. Only the allowed domains are fetched.
type Fetcher struct {
	domains   []string
	userAgent string
	timeout   time.Duration
}

// NewFetcher creates a fetcher limited to domains; none selects GoraHost.
func NewFetcher(domains ...string) *Fetcher {
	if len(domains) == 0 {
		domains = []string{GoraHost}
	}
	return &Fetcher{
		domains:   domains,
		userAgent: UserAgent,
		timeout:   FetchTimeout,
	}
}

// Fetch downloads rawURL and parses it into a document.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(f.domains...),
		colly.UserAgent(f.userAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.timeout)

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	start := time.Now()
	if err := c.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	logger.RecordTiming("augment.fetch", time.Since(start))

	if body == nil {
		return nil, fmt.Errorf("fetching page: empty response from %s", rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	logger.Debug("Fetched page", logger.Fields{"url": rawURL, "bytes": len(body)})
	return doc, nil
}
