package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/foldcms/fold/internal/edit"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the content backend.
// Environment variables are parsed from the FOLD_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage: sqlite for local setups, postgres for shared ones.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/fold.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Schema and locale configuration files
	ContentTypesPath string `envconfig:"CONTENTTYPES_PATH" default:"./config/contenttypes.yaml"`
	TaxonomyPath     string `envconfig:"TAXONOMY_PATH" default:"./config/taxonomy.yaml"`
	MessagesPath     string `envconfig:"MESSAGES_PATH" default:"./config/messages.yaml"`
	Locale           string `envconfig:"LOCALE" default:"en"`

	// Edit-form behavior
	GroupingPolicy    string `envconfig:"GROUPING_POLICY" default:"eager"`
	SkipSelfRelations bool   `envconfig:"SKIP_SELF_RELATIONS" default:"true"`

	// Authorization: local role table by default, remote service when set.
	AuthServiceURL string `envconfig:"AUTH_SERVICE_URL" default:""`
	AuthServiceKey string `envconfig:"AUTH_SERVICE_KEY" default:""`
}

// ResolveDefaults derives DBDriver when set to "auto" and validates
// enumerated settings.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
	}
	if !edit.GroupingPolicy(c.GroupingPolicy).Valid() {
		return fmt.Errorf("unsupported GROUPING_POLICY: %s", c.GroupingPolicy)
	}
	return nil
}

// New creates a Config by parsing FOLD_-prefixed environment variables.
// Example: FOLD_HTTP_PORT, FOLD_CONTENTTYPES_PATH.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("FOLD", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Str("contenttypes", cfg.ContentTypesPath).
		Str("grouping_policy", cfg.GroupingPolicy).
		Bool("skip_self_relations", cfg.SkipSelfRelations).
		Str("auth_service_present", boolStr(cfg.AuthServiceURL != "")).
		Msg("Configuration loaded")

	return &cfg, nil
}

// IsTesting returns true if the environment is set to testing.
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
