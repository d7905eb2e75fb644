package pricedb

import (
	"strings"

	"cotador/internal/models"
	"cotador/internal/normalizer"
)

// Merge folds per-market updates into the current database and returns
// the result; the inputs are not mutated. Item names are canonicalized
// through the normalizer before storage, so "feijao" and "feijão carioca
// 1kg" land on the same key. Within one merge the last writer wins, which
// makes the operation idempotent: merging the same updates twice changes
// nothing.
func Merge(current models.PriceDB, updates map[string]*models.PriceMap, norm *normalizer.Normalizer) models.PriceDB {
	merged := current.Clone()
	if merged == nil {
		merged = make(models.PriceDB)
	}

	for market, items := range updates {
		key := strings.ToLower(market)
		target, ok := merged[key]
		if !ok {
			target = models.NewPriceMap()
			merged[key] = target
		}
		for _, name := range items.Names() {
			price, _ := items.Get(name)
			target.Set(norm.Normalize(name), price)
		}
	}
	return merged
}
