// Package config provides Viper-based hierarchical configuration:
// defaults, then an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Extraction struct {
		URL            string `mapstructure:"url" yaml:"url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		DocumentType   string `mapstructure:"document_type" yaml:"document_type"`
	} `mapstructure:"extraction" yaml:"extraction"`

	Store struct {
		DSN string `mapstructure:"dsn" yaml:"-"` // never serialize credentials
	} `mapstructure:"store" yaml:"store"`

	Reconcile struct {
		Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	} `mapstructure:"reconcile" yaml:"reconcile"`

	Categories struct {
		RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"categories" yaml:"categories"`
}

var envOnce sync.Once

// LoadEnv loads environment variables from a .env file if one exists in
// the current or parent directory. Missing files are not an error.
func LoadEnv() {
	envOnce.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}

// Load initializes the configuration with hierarchical loading.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.bankrecon")
	v.AddConfigPath(".bankrecon")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BANKRECON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A broken config file should not be fatal; defaults and env
			// still apply.
			fmt.Fprintf(os.Stderr, "warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The store DSN is always read from the unprefixed variable the
	// deployment environment provides.
	if err := v.BindEnv("store.dsn", "DATABASE_URL"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to bind DATABASE_URL: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("extraction.url", "")
	v.SetDefault("extraction.timeout_seconds", 60)
	v.SetDefault("extraction.document_type", "bank_statement")

	v.SetDefault("store.dsn", "")

	v.SetDefault("reconcile.threshold", 0.5)

	v.SetDefault("categories.rules_file", "")
}

func validate(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}

	if cfg.Extraction.TimeoutSeconds <= 0 {
		return fmt.Errorf("extraction timeout must be positive, got %d", cfg.Extraction.TimeoutSeconds)
	}

	if cfg.Reconcile.Threshold < 0 || cfg.Reconcile.Threshold > 1 {
		return fmt.Errorf("reconcile threshold must be within [0,1], got %v", cfg.Reconcile.Threshold)
	}

	return nil
}
