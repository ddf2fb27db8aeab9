// Package websearch finds web pages that may contain a candidate sentence.
// Two providers exist: a keyed search API (preferred when credentials are
// configured) and a results-page scraper used as the fallback, so the system
// stays functional without paid API access.
package websearch

import (
	"context"

	"github.com/inkforge/scribeguard/internal/config"
	"github.com/inkforge/scribeguard/internal/models"
	"github.com/rs/zerolog/log"
)

// Provider issues an exact-phrase search and returns ranked hits. A provider
// never propagates transport failures to the caller as a reason to abort a
// check; an empty hit list is the degraded outcome.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error)
}

// Select picks the provider per configuration: the API provider when
// credentials are present and preferred, otherwise the scraper. Returns nil
// when external search is disabled.
func Select(cfg *config.Config) Provider {
	if !cfg.UseExternalSearch {
		log.Info().Msg("External search disabled")
		return nil
	}

	if cfg.SearchProvider == "api" && cfg.SearchAPIKey != "" && cfg.SearchEngineID != "" {
		log.Info().Msg("Using API search provider")
		return NewAPIProvider(cfg.SearchAPIURL, cfg.SearchAPIKey, cfg.SearchEngineID, cfg.RequestTimeout)
	}

	log.Info().Msg("Using scraping search provider")
	return NewScrapeProvider(cfg.ScrapeSearchURL, cfg.RequestTimeout, cfg.RetryCount)
}
