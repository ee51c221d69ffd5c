package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/wotreplay/internal/logging"
	"github.com/rs/zerolog"
)

const (
	DefaultCatalogPath = "wotreplay.db"
	DefaultWorkers     = 4
)

type Config struct {
	Log     LogConfig
	Catalog CatalogConfig
}

type LogConfig struct {
	Level     string
	Timestamp bool
	NoColor   bool
}

type CatalogConfig struct {
	Path    string
	Workers int
}

type fileConfig struct {
	Log struct {
		Level     string `toml:"level"`
		Timestamp bool   `toml:"timestamp"`
		NoColor   bool   `toml:"no_color"`
	} `toml:"log"`
	Catalog struct {
		Path    string `toml:"path"`
		Workers int    `toml:"workers"`
	} `toml:"catalog"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
		Catalog: CatalogConfig{
			Path:    DefaultCatalogPath,
			Workers: DefaultWorkers,
		},
	}
}

// Load overlays the keys defined in path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	if meta.IsDefined("catalog", "path") {
		cfg.Catalog.Path = strings.TrimSpace(raw.Catalog.Path)
	}
	if meta.IsDefined("catalog", "workers") {
		cfg.Catalog.Workers = raw.Catalog.Workers
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	if strings.TrimSpace(cfg.Catalog.Path) == "" {
		return fmt.Errorf("catalog path is required")
	}
	if cfg.Catalog.Workers < 1 {
		return fmt.Errorf("catalog workers must be at least 1, got %d", cfg.Catalog.Workers)
	}
	return nil
}

// LogOptions maps the [log] table onto logging options.
func (c Config) LogOptions() logging.Options {
	level, ok := logging.ParseLevel(c.Log.Level)
	if !ok {
		level = zerolog.InfoLevel
	}
	return logging.Options{
		Level:     level,
		Timestamp: c.Log.Timestamp,
		NoColor:   c.Log.NoColor,
	}
}
