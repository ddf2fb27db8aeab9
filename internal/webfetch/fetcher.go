package webfetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/inkforge/scribeguard/internal/metrics"
	"github.com/inkforge/scribeguard/internal/textnorm"
	"github.com/inkforge/scribeguard/internal/useragent"
	"github.com/rs/zerolog/log"
)

// Fetcher downloads candidate source pages and extracts their visible text.
// An unreachable or non-200 page is an expected condition, not an error:
// Fetch reports it through the ok flag so the caller can skip the source.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the page at url and returns its normalized visible text.
// One retry covers transient transport failures; anything beyond that the
// page is treated as unavailable.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, bool) {
	text, err := f.fetchOnce(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			metrics.PageFetches.WithLabelValues("unavailable").Inc()
			return "", false
		}
		log.Debug().Err(err).Str("url", url).Msg("Page fetch failed, retrying once")
		text, err = f.fetchOnce(ctx, url)
	}
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Page unavailable, skipping source")
		metrics.PageFetches.WithLabelValues("unavailable").Inc()
		return "", false
	}

	metrics.PageFetches.WithLabelValues("ok").Inc()
	return text, true
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("User-Agent", useragent.Random())

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	return extractText(doc), nil
}

// extractText strips non-content elements and normalizes what remains.
func extractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, iframe, nav, header, footer").Remove()

	var builder strings.Builder
	doc.Find("body").Each(func(_ int, body *goquery.Selection) {
		builder.WriteString(body.Text())
		builder.WriteString(" ")
	})
	text := builder.String()
	if text == "" {
		text = doc.Text()
	}

	return textnorm.Normalize(text)
}
