package main

import (
	"os"

	"github.com/jonathan/candidate-ranker/internal/config"
)

// buildConfig assembles the effective configuration: config file values win
// over defaults, environment credentials fill whatever is still missing.
func buildConfig(configPath string) (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	cfg = cfg.MergeWithDefaults(config.Default())

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}
