package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	BackendApper = "apper"
	BackendLocal = "local"
)

type Config struct {
	Env     string `env:"CLIENTFLOW_ENV" env-default:"prod"`
	Backend string `env:"CLIENTFLOW_BACKEND" env-default:"apper"`
	Apper   ApperConfig
	Local   LocalConfig
}

type ApperConfig struct {
	ProjectID string        `env:"APPER_PROJECT_ID"`
	PublicKey string        `env:"APPER_PUBLIC_KEY"`
	BaseURL   string        `env:"APPER_BASE_URL" env-default:"https://api.apper.io/v1"`
	Timeout   time.Duration `env:"APPER_TIMEOUT" env-default:"15s"`
}

type LocalConfig struct {
	// DBPath defaults to ~/.clientflow/clientflow.db when empty.
	DBPath string `env:"CLIENTFLOW_DB_PATH"`
}

// Validate checks that the selected backend has what it needs. Values are
// only checked for presence.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendApper:
		var errs []error
		if c.Apper.ProjectID == "" {
			errs = append(errs, errors.New("APPER_PROJECT_ID is not set"))
		}
		if c.Apper.PublicKey == "" {
			errs = append(errs, errors.New("APPER_PUBLIC_KEY is not set"))
		}
		return errors.Join(errs...)
	case BackendLocal:
		return nil
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
}
