package scrum

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	userAgent      = "ceres/1.0 (github.com/fortuna/ceres)"
	requestTimeout = 30 * time.Second
)

// The harvest only ever follows links into these hosts (and their
// subdomains); anything else is a broken or hostile link.
var allowedHosts = []string{"stats.espnscrum.com", "espn.co.uk"}

// Client fetches statsguru pages as parsed documents. A shared rate
// limiter bounds all harvest traffic, search and match pages alike.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	base       *url.URL
}

// NewClient creates a fetch client limited to requestsPerSecond.
func NewClient(requestsPerSecond float64) *Client {
	return NewClientWithBase(baseDomain, requestsPerSecond)
}

// NewClientWithBase overrides the base domain, used by tests to point the
// client at a local fixture server.
func NewClientWithBase(base string, requestsPerSecond float64) *Client {
	parsed, err := url.Parse(base)
	if err != nil {
		parsed, _ = url.Parse(baseDomain)
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		base:       parsed,
	}
}

// FetchDocument fetches a page, resolving relative URLs against the base
// domain, and parses it into a goquery document.
func (c *Client) FetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	target := c.base.ResolveReference(ref)

	if target.Hostname() != c.base.Hostname() && !hostAllowed(target.Hostname()) {
		return nil, fmt.Errorf("host %q not allowed", target.Hostname())
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, target)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// FetchSearchPage fetches one page of match references for a category.
func (c *Client) FetchSearchPage(ctx context.Context, category Category, page int) (*goquery.Document, error) {
	return c.FetchDocument(ctx, searchURL(category, page))
}

func hostAllowed(host string) bool {
	for _, allowed := range allowedHosts {
		if host == allowed || len(host) > len(allowed) && host[len(host)-len(allowed)-1] == '.' &&
			host[len(host)-len(allowed):] == allowed {
			return true
		}
	}
	return false
}
