package scraper

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cotador/internal/models"
)

type stubScraper struct {
	prices map[string]float64
	err    error
}

func (s stubScraper) FetchPrices(ctx context.Context, source models.Source) (*models.PriceMap, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := models.NewPriceMap()
	for name, price := range s.prices {
		items.Set(name, price)
	}
	return items, nil
}

type stubSearcher struct {
	price float64
	err   error
}

func (s stubSearcher) SearchPrices(ctx context.Context, source models.Source, terms []string) (*models.PriceMap, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := models.NewPriceMap()
	for _, t := range terms {
		out.Set(t, s.price)
	}
	return out, nil
}

func TestCollectKeepsPartialResultsOnFailure(t *testing.T) {
	registry := Registry{
		"ok":     stubScraper{prices: map[string]float64{"arroz 5kg tipo 1": 27.90}},
		"broken": stubScraper{err: eris.New("site down")},
		"mock":   MockScraper{},
	}
	sources := []models.Source{
		{Name: "MercadoA", BaseURL: "https://a.example", Kind: "ok"},
		{Name: "mercadoB", BaseURL: "https://b.example", Kind: "broken"},
	}

	merged := Collect(context.Background(), sources, registry, 4)

	require.Len(t, merged, 1)
	price, ok := merged["mercadoa"].Get("arroz 5kg tipo 1")
	require.True(t, ok)
	assert.Equal(t, 27.90, price)

	// The failed market contributes nothing, not an empty entry.
	_, present := merged["mercadob"]
	assert.False(t, present)
}

func TestCollectLowercasesMarketKeys(t *testing.T) {
	registry := NewRegistry(MockScraper{}, MockScraper{})
	sources := []models.Source{{Name: "Kawakami_Marilia", Kind: "mock"}}

	merged := Collect(context.Background(), sources, registry, 1)

	require.Contains(t, merged, "kawakami_marilia")
	assert.Equal(t, 7, merged["kawakami_marilia"].Len())
}

func TestCollectUnknownKindFallsBackToMock(t *testing.T) {
	registry := NewRegistry(MockScraper{}, MockScraper{})
	sources := []models.Source{{Name: "m", Kind: "carrier-pigeon"}}

	merged := Collect(context.Background(), sources, registry, 1)

	require.Contains(t, merged, "m")
	price, ok := merged["m"].Get("feijão carioca 1kg")
	require.True(t, ok)
	assert.Equal(t, 9.10, price)
}

func TestSearchCollectRoutesByKind(t *testing.T) {
	httpSearcher := stubSearcher{price: 10.00}
	headlessSearcher := stubSearcher{price: 20.00}
	sources := []models.Source{
		{Name: "plain", Kind: "http"},
		{Name: "rendered", Kind: "headless"},
	}

	merged := SearchCollect(context.Background(), sources, []string{"arroz"},
		httpSearcher, headlessSearcher, 2)

	require.Len(t, merged, 2)
	p, _ := merged["plain"].Get("arroz")
	assert.Equal(t, 10.00, p)
	p, _ = merged["rendered"].Get("arroz")
	assert.Equal(t, 20.00, p)
}

func TestSearchCollectSwallowsTaskErrors(t *testing.T) {
	sources := []models.Source{
		{Name: "plain", Kind: "http"},
		{Name: "rendered", Kind: "headless"},
	}

	merged := SearchCollect(context.Background(), sources, []string{"arroz"},
		stubSearcher{price: 10.00}, stubSearcher{err: eris.New("browser gone")}, 2)

	require.Len(t, merged, 1)
	assert.Contains(t, merged, "plain")
}
