// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// InMemory is the session directory value that keeps sessions in memory only.
const InMemory = ":memory:"

// Config holds every setting the server reads at startup.
type Config struct {
	Addr            string        `env:"QUILL_ADDR"             envDefault:":8080"`
	DatabaseURI     string        `env:"DB_URI"                 envDefault:"sqlite://posts.db"`
	SecretKey       string        `env:"QUILL_SECRET_KEY,required,notEmpty"`
	SessionDir      string        `env:"QUILL_SESSION_DIR"      envDefault:"data/sessions"`
	SessionTTL      time.Duration `env:"QUILL_SESSION_TTL"      envDefault:"720h"`
	SecureCookies   bool          `env:"QUILL_SECURE_COOKIES"   envDefault:"false"`
	ShutdownTimeout time.Duration `env:"QUILL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DatabaseLog     bool          `env:"QUILL_DB_LOG"           envDefault:"false"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from environ instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("parse env: QUILL_SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return &cfg, nil
}

// SessionStorePath returns the Badger directory, or "" for an in-memory store.
func (c *Config) SessionStorePath() string {
	if c.SessionDir == InMemory {
		return ""
	}
	return c.SessionDir
}
