package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/inkforge/scribeguard/internal/metrics"
	"github.com/inkforge/scribeguard/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// APIProvider queries a keyed JSON search API (Custom Search style) with an
// exact-phrase query. Calls are paced to at least one second apart to avoid
// quota exhaustion; HTTP failures degrade to an empty result set.
type APIProvider struct {
	baseURL  string
	apiKey   string
	engineID string
	client   *http.Client
	limiter  *rate.Limiter
}

type apiSearchResponse struct {
	Items []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func NewAPIProvider(baseURL, apiKey, engineID string, timeout time.Duration) *APIProvider {
	return &APIProvider{
		baseURL:  baseURL,
		apiKey:   apiKey,
		engineID: engineID,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (p *APIProvider) Name() string { return "api" }

// Search returns up to limit hits for an exact-phrase match of the query.
// Failures are logged and yield an empty result set, never an error the
// caller would abort on.
func (p *APIProvider) Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("cx", p.engineID)
	params.Set("q", fmt.Sprintf("%q", query))
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("API search request failed")
		metrics.SearchRequests.WithLabelValues(p.Name(), "error").Inc()
		return []models.SearchHit{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().
			Int("status", resp.StatusCode).
			Msg("API search returned non-200, treating as empty result set")
		metrics.SearchRequests.WithLabelValues(p.Name(), "error").Inc()
		return []models.SearchHit{}, nil
	}

	var searchResp apiSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		log.Warn().Err(err).Msg("Failed to decode API search response")
		metrics.SearchRequests.WithLabelValues(p.Name(), "error").Inc()
		return []models.SearchHit{}, nil
	}

	hits := make([]models.SearchHit, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Link == "" {
			continue
		}
		hits = append(hits, models.SearchHit{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
		})
		if len(hits) >= limit {
			break
		}
	}

	metrics.SearchRequests.WithLabelValues(p.Name(), "ok").Inc()
	return hits, nil
}
