package websearch

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/inkforge/scribeguard/internal/metrics"
	"github.com/inkforge/scribeguard/internal/models"
	"github.com/inkforge/scribeguard/internal/retry"
	"github.com/inkforge/scribeguard/internal/useragent"
	"github.com/rs/zerolog/log"
)

// domainBlacklist holds domains that never carry plagiarism evidence:
// search engines themselves, social networks, storefronts.
var domainBlacklist = []string{
	"duckduckgo.com",
	"google.",
	"bing.com",
	"yahoo.com",
	"youtube.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"pinterest.",
	"amazon.",
}

// ScrapeProvider issues the query against a search engine's HTML results
// page and parses result anchors. It randomizes the user agent and the
// inter-request delay to reduce detection, and retries transient failures
// (5xx, 429) with exponential backoff.
type ScrapeProvider struct {
	baseURL  string
	client   *http.Client
	retrier  *retry.Retrier
	minDelay time.Duration
	maxDelay time.Duration
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("search page returned status %d", e.status)
}

func retryableStatus(err error) bool {
	if statusErr, ok := err.(*httpStatusError); ok {
		return statusErr.status >= 500 || statusErr.status == http.StatusTooManyRequests
	}
	// Transport-level failures are worth one more try.
	return true
}

func NewScrapeProvider(baseURL string, timeout time.Duration, retryCount int) *ScrapeProvider {
	return &ScrapeProvider{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		retrier:  retry.New(retry.DefaultConfig(retryCount), retryableStatus),
		minDelay: 2 * time.Second,
		maxDelay: 4 * time.Second,
	}
}

func (p *ScrapeProvider) Name() string { return "scrape" }

// Search fetches the results page for an exact-phrase query and extracts up
// to limit hits, dropping blacklisted domains.
func (p *ScrapeProvider) Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	if err := p.pause(ctx); err != nil {
		return nil, err
	}

	var hits []models.SearchHit
	err := p.retrier.Do(ctx, func() error {
		var fetchErr error
		hits, fetchErr = p.fetchResults(ctx, query, limit)
		return fetchErr
	})
	if err != nil {
		log.Warn().Err(err).Msg("Scrape search failed after retries, treating as empty result set")
		metrics.SearchRequests.WithLabelValues(p.Name(), "error").Inc()
		return []models.SearchHit{}, nil
	}

	metrics.SearchRequests.WithLabelValues(p.Name(), "ok").Inc()
	return hits, nil
}

// pause sleeps a randomized interval between requests. Meaningful only
// because candidates are processed sequentially.
func (p *ScrapeProvider) pause(ctx context.Context) error {
	delay := p.minDelay
	if p.maxDelay > p.minDelay {
		delay += time.Duration(rand.Int63n(int64(p.maxDelay - p.minDelay)))
	}
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (p *ScrapeProvider) fetchResults(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q", query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("User-Agent", useragent.Random())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	return parseResults(doc, limit), nil
}

// parseResults extracts (url, title, snippet) triples from the results
// markup. It understands the result/result__a/result__snippet structure used
// by the HTML search endpoint and falls back to bare anchors.
func parseResults(doc *goquery.Document, limit int) []models.SearchHit {
	var hits []models.SearchHit

	doc.Find("div.result").EachWithBreak(func(_ int, result *goquery.Selection) bool {
		anchor := result.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}
		target := resolveRedirect(href)
		if target == "" || blacklisted(target) {
			return true
		}
		hits = append(hits, models.SearchHit{
			URL:     target,
			Title:   strings.TrimSpace(anchor.Text()),
			Snippet: strings.TrimSpace(result.Find("a.result__snippet, div.result__snippet").First().Text()),
		})
		return len(hits) < limit
	})

	if len(hits) > 0 {
		return hits
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, _ := anchor.Attr("href")
		target := resolveRedirect(href)
		if target == "" || !strings.HasPrefix(target, "http") || blacklisted(target) {
			return true
		}
		hits = append(hits, models.SearchHit{
			URL:   target,
			Title: strings.TrimSpace(anchor.Text()),
		})
		return len(hits) < limit
	})

	return hits
}

// resolveRedirect unwraps engine redirect links of the form
// //host/l/?uddg=<encoded-target>, returning the real target URL.
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	if idx := strings.Index(href, "uddg="); idx >= 0 {
		encoded := href[idx+len("uddg="):]
		if amp := strings.IndexByte(encoded, '&'); amp >= 0 {
			encoded = encoded[:amp]
		}
		if decoded, err := url.QueryUnescape(encoded); err == nil {
			return decoded
		}
	}
	return href
}

func blacklisted(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	for _, blocked := range domainBlacklist {
		if strings.Contains(host, blocked) {
			return true
		}
	}
	return false
}
