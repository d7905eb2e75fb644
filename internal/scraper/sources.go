package scraper

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"cotador/internal/models"
)

// DefaultSources is the built-in market list used until a sources file is
// provided.
func DefaultSources() []models.Source {
	return []models.Source{
		{Name: "kawakami_marilia", BaseURL: "https://www.kawakami.com.br/", Kind: "http"},
		{Name: "tauste_marilia", BaseURL: "https://tauste.com.br/marilia/", Kind: "http"},
		{Name: "amigao", BaseURL: "https://www.amigao.com/", Kind: "headless"},
		{Name: "confianca_marilia", BaseURL: "https://www.confianca.com.br/marilia", Kind: "headless"},
	}
}

// LoadSources reads the sources JSON document. A missing or malformed
// file is non-fatal: the built-in defaults are returned and the problem
// is logged.
func LoadSources(path string) []models.Source {
	if path == "" {
		return DefaultSources()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("sources file unreadable, using defaults",
				zap.String("path", path), zap.Error(err))
		}
		return DefaultSources()
	}

	var sources []models.Source
	if err := json.Unmarshal(data, &sources); err != nil {
		zap.L().Warn("sources file malformed, using defaults",
			zap.String("path", path), zap.Error(err))
		return DefaultSources()
	}
	if len(sources) == 0 {
		return DefaultSources()
	}
	return sources
}
