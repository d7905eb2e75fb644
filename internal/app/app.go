// Package app wires the configuration, stores and scrapers into the
// operations the binaries and the HTTP API expose.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"cotador/internal/database"
	"cotador/internal/models"
	"cotador/internal/normalizer"
	"cotador/internal/pricedb"
	"cotador/internal/quote"
	"cotador/internal/rules"
	"cotador/internal/scraper"
	"cotador/pkg/config"
	"cotador/utils"
)

// App is the assembled application.
type App struct {
	Config  *config.Config
	Repo    *database.Repository
	Rules   []rules.SiteRule
	Norm    *normalizer.Normalizer
	Sources []models.Source

	registry       scraper.Registry
	httpSearcher   scraper.Searcher
	headlessSearch scraper.Searcher
	browser        *scraper.BrowserFetcher
	workers        int
}

// New assembles the application from its configuration.
func New(cfg *config.Config) (*App, error) {
	repo, err := database.Open(cfg.HistoryDBPath())
	if err != nil {
		return nil, eris.Wrap(err, "app: open history db")
	}

	siteRules := rules.Load(cfg.RulesPath())
	norm := normalizer.New(normalizer.LoadMapping(cfg.SynonymsPath()))
	timeout := time.Duration(cfg.Scraper.TimeoutSecs) * time.Second

	httpFetcher := scraper.NewHTTPFetcher(scraper.HTTPOptions{Timeout: timeout})
	browser := scraper.NewBrowserFetcher(cfg.Scraper.Headless, timeout)

	httpScraper := scraper.NewMarketScraper(httpFetcher, siteRules, norm)
	headlessScraper := scraper.NewMarketScraper(browser, siteRules, norm)

	return &App{
		Config:         cfg,
		Repo:           repo,
		Rules:          siteRules,
		Norm:           norm,
		Sources:        scraper.LoadSources(cfg.SourcesPath()),
		registry:       scraper.NewRegistry(httpScraper, headlessScraper),
		httpSearcher:   httpScraper,
		headlessSearch: headlessScraper,
		browser:        browser,
		workers:        0,
	}, nil
}

// Close releases the application's resources.
func (a *App) Close() {
	a.browser.Close()
	if err := a.Repo.Close(); err != nil {
		zap.L().Warn("history db close failed", zap.Error(err))
	}
}

// Workers resolves the collection fan-out limit from the configuration.
func (a *App) Workers() int {
	if a.workers == 0 {
		a.workers = utils.GetOptimalWorkerCount(a.Config.Scraper.Workers)
	}
	return a.workers
}

// RefreshPrices collects from the configured sources, merges the result
// into the stored price database and saves it.
func (a *App) RefreshPrices(ctx context.Context) (models.PriceDB, error) {
	return a.UpdatePrices(ctx, a.Sources)
}

// UpdatePrices collects from the given sources, merges into the stored
// price database and saves it.
func (a *App) UpdatePrices(ctx context.Context, sources []models.Source) (models.PriceDB, error) {
	updates := scraper.Collect(ctx, sources, a.registry, a.Workers())
	db := pricedb.Merge(pricedb.LoadFile(a.Config.PriceDBPath()), updates, a.Norm)
	if err := pricedb.SaveFile(a.Config.PriceDBPath(), db); err != nil {
		return nil, eris.Wrap(err, "app: save price db")
	}
	zap.L().Info("price db updated",
		zap.Int("sources", len(sources)), zap.Int("markets", len(db)))
	return db, nil
}

// SaveList stores a shopping list.
func (a *App) SaveList(name string, items []string) (int64, error) {
	return a.Repo.SaveList(name, items)
}

// QuoteList quotes a shopping list and persists the result. The stored
// price database serves first; when it is empty the sources are collected
// and merged. When every market total comes back zero the terms are
// retried through site search, merged and re-matched.
func (a *App) QuoteList(ctx context.Context, name string, items []string) (models.Quote, int64, error) {
	if _, err := a.SaveList(name, items); err != nil {
		zap.L().Warn("list save failed", zap.Error(err))
	}

	db := pricedb.LoadFile(a.Config.PriceDBPath())
	if len(db) == 0 {
		var err error
		db, err = a.RefreshPrices(ctx)
		if err != nil {
			return models.Quote{}, 0, err
		}
	}

	q := quote.Match(items, db, a.Norm)
	if allZero(q.Totals) && len(nonBlank(items)) > 0 {
		zap.L().Info("no totals from stored prices, trying site search")
		found := scraper.SearchCollect(ctx, a.Sources, nonBlank(items),
			a.httpSearcher, a.headlessSearch, a.Workers())
		if len(found) > 0 {
			db = pricedb.Merge(db, found, a.Norm)
			if err := pricedb.SaveFile(a.Config.PriceDBPath(), db); err != nil {
				zap.L().Warn("price db save failed", zap.Error(err))
			}
			q = quote.Match(items, db, a.Norm)
			q.Source = "search"
		}
	}

	id, err := a.Repo.SaveQuote(q)
	if err != nil {
		return q, 0, eris.Wrap(err, "app: save quote")
	}
	return q, id, nil
}

func allZero(totals map[string]float64) bool {
	for _, t := range totals {
		if t > 0 {
			return false
		}
	}
	return true
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	return out
}
