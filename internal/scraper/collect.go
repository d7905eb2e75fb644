package scraper

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cotador/internal/models"
)

// Collect fans out one retrieval task per source, bounded by the worker
// limit, and joins them into per-market updates. A failing task is logged
// and dropped; siblings are never cancelled, so the operation always
// completes with whatever partial results it got. Each task fills its own
// slot and the final merge is single-threaded, so no locking is needed.
func Collect(ctx context.Context, sources []models.Source, registry Registry, workers int) map[string]*models.PriceMap {
	if workers < 1 {
		workers = 1
	}

	results := make([]*models.PriceMap, len(sources))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			prices, err := registry.For(src.Kind).FetchPrices(ctx, src)
			if err != nil {
				zap.L().Warn("collection task failed",
					zap.String("source", src.Name), zap.Error(err))
				return nil
			}
			results[i] = prices
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[string]*models.PriceMap)
	for i, src := range sources {
		if results[i] != nil {
			merged[strings.ToLower(src.Name)] = results[i]
		}
	}
	return merged
}

// SearchCollect runs search-mode retrieval for the terms against every
// source, fanned out like Collect. The headless searcher serves sources
// of kind "headless"; everything else goes through the HTTP searcher.
func SearchCollect(ctx context.Context, sources []models.Source, terms []string, httpSearcher, headlessSearcher Searcher, workers int) map[string]*models.PriceMap {
	if workers < 1 {
		workers = 1
	}

	results := make([]*models.PriceMap, len(sources))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			searcher := httpSearcher
			if strings.EqualFold(src.Kind, "headless") {
				searcher = headlessSearcher
			}
			prices, err := searcher.SearchPrices(ctx, src, terms)
			if err != nil {
				zap.L().Warn("search task failed",
					zap.String("source", src.Name), zap.Error(err))
				return nil
			}
			results[i] = prices
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[string]*models.PriceMap)
	for i, src := range sources {
		if results[i] != nil {
			merged[strings.ToLower(src.Name)] = results[i]
		}
	}
	return merged
}
