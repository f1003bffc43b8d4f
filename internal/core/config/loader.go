package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.DefaultLang == "" {
		cfg.Server.DefaultLang = "en"
	}
	if cfg.Ledger.Timeout == 0 {
		cfg.Ledger.Timeout = 30 * time.Second
	}
	for i := range cfg.Ledger.Providers {
		if cfg.Ledger.Providers[i].Transport == "" {
			cfg.Ledger.Providers[i].Transport = "jsonrpc"
		}
	}

	if len(cfg.Ledger.Providers) == 0 {
		return nil, fmt.Errorf("at least one ledger provider is required")
	}

	return &cfg, nil
}
