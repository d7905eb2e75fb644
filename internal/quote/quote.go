// Package quote matches a requested shopping list against the stored
// price database and totals it per market.
package quote

import (
	"math"
	"sort"
	"strings"
	"time"

	"cotador/internal/models"
	"cotador/internal/normalizer"
)

// Match builds a quotation for the requested items against the database.
// Every market in the database gets a row per non-blank term and a total,
// even when nothing matched. Matching is substring containment of the
// normalized term in the stored item name, scanning the market's items in
// insertion order; the first hit wins. Unmatched terms are recorded with
// the "not found" sentinel and price zero.
func Match(items []string, db models.PriceDB, norm *normalizer.Normalizer) models.Quote {
	q := models.Quote{
		RequestedAt:    time.Now().UTC(),
		Source:         "pricedb",
		Currency:       "BRL",
		Markets:        make(map[string][]models.QuoteItem, len(db)),
		Totals:         make(map[string]float64, len(db)),
		RequestedItems: items,
	}

	markets := make([]string, 0, len(db))
	for m := range db {
		markets = append(markets, m)
	}
	sort.Strings(markets)

	for _, market := range markets {
		stored := db[market]
		rows := make([]models.QuoteItem, 0, len(items))
		var total float64
		for _, requested := range items {
			term := norm.Normalize(requested)
			if term == "" {
				continue
			}
			matched, price := findItem(stored, term)
			rows = append(rows, models.QuoteItem{
				Requested: requested,
				Matched:   matched,
				Price:     price,
			})
			total += price
		}
		q.Markets[market] = rows
		q.Totals[market] = math.Round(total*100) / 100
	}
	return q
}

// findItem scans the market's items in insertion order for the first name
// containing the term.
func findItem(stored *models.PriceMap, term string) (string, float64) {
	for _, name := range stored.Names() {
		if strings.Contains(name, term) {
			price, _ := stored.Get(name)
			return name, price
		}
	}
	return models.NotFound, 0
}
