package config

import (
	"time"

	"github.com/vietddude/boxoffice/internal/infra/identity"
	redisclient "github.com/vietddude/boxoffice/internal/infra/redis"
	"github.com/vietddude/boxoffice/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Ledger   LedgerConfig       `yaml:"ledger"`
	Identity identity.Config    `yaml:"identity"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
	// DefaultLang is the UI language used when a request carries none.
	DefaultLang string `yaml:"default_lang"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// LedgerConfig holds settings for the remote ledger service.
type LedgerConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
	Timeout   time.Duration    `yaml:"timeout"`
}

// ProviderConfig holds settings for one ledger endpoint.
type ProviderConfig struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Transport string `yaml:"transport"` // jsonrpc (default) or grpc
}
