package scraper

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"cotador/internal/extractor"
	"cotador/internal/models"
	"cotador/internal/rules"
)

// MarketScraper retrieves prices from one market's site through an
// injected fetch capability. The same orchestration serves plain HTTP and
// headless fetching; only the Fetcher differs.
type MarketScraper struct {
	fetcher  Fetcher
	rules    []rules.SiteRule
	expander Expander
}

// NewMarketScraper wires a market scraper over a fetch capability, a rule
// registry and a term expander.
func NewMarketScraper(fetcher Fetcher, siteRules []rules.SiteRule, expander Expander) *MarketScraper {
	return &MarketScraper{fetcher: fetcher, rules: siteRules, expander: expander}
}

// FetchPrices is direct-mode retrieval: the market's base URL first, then
// each configured known path until extraction yields items or the paths
// are exhausted. Fetch failures are logged and skipped; a market with no
// reachable candidate simply contributes nothing.
func (s *MarketScraper) FetchPrices(ctx context.Context, source models.Source) (*models.PriceMap, error) {
	base := strings.TrimRight(source.BaseURL, "/")
	rule := rules.Choose(base, s.rules)
	paths := []string{"/"}
	if rule != nil {
		paths = rule.Paths
	}

	items := models.NewPriceMap()
	if markup, err := s.fetcher.Fetch(ctx, base); err != nil {
		zap.L().Warn("fetch failed", zap.String("url", base), zap.Error(err))
	} else {
		items = extractor.Extract(markup, rule)
	}

	if items.Len() == 0 {
		for _, p := range paths {
			target := base + p
			if strings.HasSuffix(base, p) {
				target = base
			}
			markup, err := s.fetcher.Fetch(ctx, target)
			if err != nil {
				zap.L().Warn("fetch failed", zap.String("url", target), zap.Error(err))
				continue
			}
			items = extractor.Extract(markup, rule)
			if items.Len() > 0 {
				break
			}
		}
	}

	zap.L().Info("prices collected",
		zap.String("source", source.Name),
		zap.String("url", base),
		zap.Int("count", items.Len()),
	)
	return items, nil
}

// SearchPrices is search-mode retrieval: for each term, every expander
// variant is tried against every search template until one candidate page
// yields items; the FIRST extracted item's price becomes that term's
// price and the remaining variants and templates are skipped. Not a
// best-price search. Sources whose rule declares no search templates
// return an empty result.
func (s *MarketScraper) SearchPrices(ctx context.Context, source models.Source, terms []string) (*models.PriceMap, error) {
	base := strings.TrimRight(source.BaseURL, "/")
	rule := rules.Choose(base, s.rules)
	out := models.NewPriceMap()
	if rule == nil || len(rule.SearchTemplates) == 0 {
		return out, nil
	}

	for _, term := range terms {
		var price float64
		found := false
		for _, variant := range s.expander.Expand(term) {
			for _, candidate := range buildSearchURLs(base, rule, variant) {
				markup, err := s.fetcher.Fetch(ctx, candidate)
				if err != nil {
					zap.L().Warn("search fetch failed", zap.String("url", candidate), zap.Error(err))
					continue
				}
				items := extractor.Extract(markup, rule)
				if items.Len() > 0 {
					_, price, found = items.First()
					break
				}
			}
			if found {
				break
			}
		}
		if found {
			out.Set(term, price)
		}
	}

	zap.L().Info("search prices collected",
		zap.String("source", source.Name),
		zap.Int("terms", len(terms)),
		zap.Int("count", out.Len()),
	)
	return out, nil
}

// buildSearchURLs substitutes the URL-encoded query into each search
// template, resolving relative templates against the base URL.
func buildSearchURLs(base string, rule *rules.SiteRule, term string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		zap.L().Warn("bad base url", zap.String("url", base), zap.Error(err))
		return nil
	}

	q := url.QueryEscape(term)
	urls := make([]string, 0, len(rule.SearchTemplates))
	for _, tpl := range rule.SearchTemplates {
		candidate := strings.ReplaceAll(tpl, "{q}", q)
		if strings.HasPrefix(candidate, "http") {
			urls = append(urls, candidate)
			continue
		}
		ref, err := url.Parse(candidate)
		if err != nil {
			zap.L().Warn("bad search template", zap.String("template", tpl), zap.Error(err))
			continue
		}
		urls = append(urls, baseURL.ResolveReference(ref).String())
	}
	return urls
}
