package pricedb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"cotador/internal/models"
)

// LoadFile reads the price database JSON document. Market keys are
// lowercased on the way in. A missing or corrupt file is non-fatal: the
// caller gets an empty database and starts fresh.
func LoadFile(path string) models.PriceDB {
	db := make(models.PriceDB)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("price db unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return db
	}

	raw := make(map[string]*models.PriceMap)
	if err := json.Unmarshal(data, &raw); err != nil {
		zap.L().Warn("price db corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		return db
	}
	for market, items := range raw {
		if items == nil {
			items = models.NewPriceMap()
		}
		db[strings.ToLower(market)] = items
	}
	return db
}

// SaveFile writes the database as an indented JSON document, creating the
// parent directory when needed.
func SaveFile(path string, db models.PriceDB) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "pricedb: create dir %s", dir)
		}
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return eris.Wrap(err, "pricedb: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "pricedb: write %s", path)
	}
	return nil
}
