// Package config loads the yaml application configuration and sets up
// the global logger.
package config

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ScraperConfig holds general scraper settings.
type ScraperConfig struct {
	// Workers is a number or "auto" (half the logical cores).
	Workers     string `yaml:"workers"`
	Headless    bool   `yaml:"headless"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DataConfig holds the on-disk data locations.
type DataConfig struct {
	Dir          string `yaml:"dir"`
	PriceDB      string `yaml:"price_db"`
	HistoryDB    string `yaml:"history_db"`
	RulesFile    string `yaml:"rules_file"`
	SynonymsFile string `yaml:"synonyms_file"`
	SourcesFile  string `yaml:"sources_file"`
}

// ScheduleConfig holds the optional periodic refresh settings.
type ScheduleConfig struct {
	// RefreshCron is a cron spec; empty disables the scheduler.
	RefreshCron string `yaml:"refresh_cron"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Scraper  ScraperConfig  `yaml:"scraper"`
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{Workers: "auto", Headless: true, TimeoutSecs: 15},
		Server:  ServerConfig{Port: 8000},
		Data: DataConfig{
			Dir:          "data",
			PriceDB:      "precos.json",
			HistoryDB:    "history.db",
			RulesFile:    "rules.json",
			SynonymsFile: "sinonimos.json",
			SourcesFile:  "sources.json",
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads the config file and overlays it on the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, eris.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}
	return cfg, nil
}

// PriceDBPath resolves the price database location under the data dir.
func (c *Config) PriceDBPath() string { return c.dataPath(c.Data.PriceDB) }

// HistoryDBPath resolves the sqlite history database location.
func (c *Config) HistoryDBPath() string { return c.dataPath(c.Data.HistoryDB) }

// RulesPath resolves the site-rule override document location.
func (c *Config) RulesPath() string { return c.dataPath(c.Data.RulesFile) }

// SynonymsPath resolves the synonym document location.
func (c *Config) SynonymsPath() string { return c.dataPath(c.Data.SynonymsFile) }

// SourcesPath resolves the sources document location.
func (c *Config) SourcesPath() string { return c.dataPath(c.Data.SourcesFile) }

func (c *Config) dataPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
