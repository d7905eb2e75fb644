package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yml"))
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Scraper.Workers)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, filepath.Join("data", "precos.json"), cfg.PriceDBPath())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	doc := `
scraper:
  workers: "4"
  headless: false
server:
  port: 9090
data:
  dir: /var/lib/cotador
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "4", cfg.Scraper.Workers)
	assert.False(t, cfg.Scraper.Headless)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched sections keep their defaults.
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join("/var/lib/cotador", "history.db"), cfg.HistoryDBPath())
}

func TestLoadMalformedFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("scraper: [not: a: map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDataPathAbsolutePassthrough(t *testing.T) {
	cfg := Default()
	cfg.Data.PriceDB = "/srv/precos.json"
	assert.Equal(t, "/srv/precos.json", cfg.PriceDBPath())
}
