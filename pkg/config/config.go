// Package config loads the optional TOML configuration file. Every value
// has a default, so running without a file is the common case and a config
// file only overrides what it mentions.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/coolbeans/dokmatch/pkg/match"
	"github.com/coolbeans/dokmatch/pkg/pdftext"
)

// Config is the full runtime configuration.
type Config struct {
	Separator string           `toml:"separator"`
	Match     match.Thresholds `toml:"match"`
	Content   pdftext.Options  `toml:"content"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Separator: "_",
		Match:     match.DefaultThresholds(),
		Content:   pdftext.DefaultOptions(),
	}
}

// Load reads the TOML file at path on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("konfiguration lesen: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("konfiguration parsen: %w", err)
	}
	return cfg, nil
}
