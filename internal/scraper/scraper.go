package scraper

import (
	"context"
	"strings"

	"cotador/internal/models"
	"cotador/internal/normalizer"
)

// Scraper defines the basic behavior for all market price collectors.
// Any new adapter follows the same contract: a source in, that market's
// item -> price mapping out.
type Scraper interface {
	// FetchPrices collects the current price listing for one market.
	FetchPrices(ctx context.Context, source models.Source) (*models.PriceMap, error)
}

// Searcher is the per-term retrieval capability: only adapters with a
// search-capable fetch path implement it.
type Searcher interface {
	// SearchPrices resolves a price per requested term by driving the
	// source's site search.
	SearchPrices(ctx context.Context, source models.Source, terms []string) (*models.PriceMap, error)
}

// MockScraper returns a fixed staple-goods listing. It backs the "mock"
// source kind and is the fallback for unknown kinds.
type MockScraper struct{}

// FetchPrices returns the simulated listing.
func (MockScraper) FetchPrices(ctx context.Context, source models.Source) (*models.PriceMap, error) {
	items := models.NewPriceMap()
	items.Set("arroz 5kg tipo 1", 27.90)
	items.Set("feijão carioca 1kg", 9.10)
	items.Set("óleo de soja 900ml", 7.55)
	items.Set("café 500g", 15.10)
	items.Set("açúcar 1kg", 5.40)
	items.Set("farinha de trigo 1kg", 5.05)
	items.Set("leite longa vida 1l", 4.10)
	return items, nil
}

// Registry maps source kinds to scraper adapters. "agent" is a legacy
// alias for "http"; anything unknown falls back to "mock".
type Registry map[string]Scraper

// NewRegistry wires the standard adapters over the two fetch capabilities.
func NewRegistry(httpScraper, headlessScraper Scraper) Registry {
	return Registry{
		"mock":     MockScraper{},
		"http":     httpScraper,
		"agent":    httpScraper,
		"headless": headlessScraper,
	}
}

// For resolves the adapter for a source kind.
func (r Registry) For(kind string) Scraper {
	if s, ok := r[strings.ToLower(kind)]; ok {
		return s
	}
	return r["mock"]
}

// Expander narrows the normalizer surface search retrieval needs.
type Expander interface {
	Expand(term string) []string
}

var _ Expander = (*normalizer.Normalizer)(nil)
