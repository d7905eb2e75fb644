package pricedb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cotador/internal/models"
	"cotador/internal/normalizer"
)

func priceMapOf(pairs ...any) *models.PriceMap {
	m := models.NewPriceMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(float64))
	}
	return m
}

func TestMergeCanonicalizesItemNames(t *testing.T) {
	norm := normalizer.New(normalizer.DefaultMapping())
	updates := map[string]*models.PriceMap{
		"mercadoA": priceMapOf("feijao", 8.90),
	}

	merged := Merge(make(models.PriceDB), updates, norm)

	require.Contains(t, merged, "mercadoa")
	price, ok := merged["mercadoa"].Get("feijão carioca 1kg")
	require.True(t, ok)
	assert.Equal(t, 8.90, price)

	_, raw := merged["mercadoa"].Get("feijao")
	assert.False(t, raw)
}

func TestMergeLastWriterWins(t *testing.T) {
	norm := normalizer.New(nil)
	current := models.PriceDB{
		"mercadoa": priceMapOf("arroz 5kg tipo 1", 27.90),
	}
	updates := map[string]*models.PriceMap{
		"MercadoA": priceMapOf("arroz 5kg tipo 1", 25.50, "leite longa vida 1l", 4.30),
	}

	merged := Merge(current, updates, norm)

	price, _ := merged["mercadoa"].Get("arroz 5kg tipo 1")
	assert.Equal(t, 25.50, price)
	price, _ = merged["mercadoa"].Get("leite longa vida 1l")
	assert.Equal(t, 4.30, price)

	// Inputs stay untouched.
	price, _ = current["mercadoa"].Get("arroz 5kg tipo 1")
	assert.Equal(t, 27.90, price)
}

func TestMergeIsIdempotent(t *testing.T) {
	norm := normalizer.New(normalizer.DefaultMapping())
	updates := map[string]*models.PriceMap{
		"mercadoa": priceMapOf("arroz", 27.90, "cafe", 15.10),
	}

	once := Merge(make(models.PriceDB), updates, norm)
	twice := Merge(once, updates, norm)

	assert.Equal(t, once, twice)
}

func TestMergeNilCurrent(t *testing.T) {
	norm := normalizer.New(nil)
	merged := Merge(nil, map[string]*models.PriceMap{
		"m": priceMapOf("leite longa vida 1l", 4.10),
	}, norm)

	require.Contains(t, merged, "m")
	assert.Equal(t, 1, merged["m"].Len())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "prices.json")
	db := models.PriceDB{
		"mercadoa": priceMapOf("arroz 5kg tipo 1", 27.90, "feijão carioca 1kg", 9.10),
	}

	require.NoError(t, SaveFile(path, db))
	loaded := LoadFile(path)

	require.Contains(t, loaded, "mercadoa")
	price, ok := loaded["mercadoa"].Get("feijão carioca 1kg")
	require.True(t, ok)
	assert.Equal(t, 9.10, price)

	// Insertion order survives the round trip.
	assert.Equal(t, []string{"arroz 5kg tipo 1", "feijão carioca 1kg"}, loaded["mercadoa"].Names())
}

func TestLoadFileMissingReturnsEmpty(t *testing.T) {
	db := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Empty(t, db)
}

func TestLoadFileCorruptReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	db := LoadFile(path)
	assert.Empty(t, db)
}
