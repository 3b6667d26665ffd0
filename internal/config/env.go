package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Runtime holds process-level settings read from the environment.
type Runtime struct {
	ConfigDir string `env:"ARCANE_CONFIG" envDefault:"assets"`
	Seed      int64  `env:"ARCANE_SEED" envDefault:"12345"`
	Workers   int    `env:"ARCANE_WORKERS" envDefault:"8"`
	Store     string `env:"ARCANE_STORE"` // sqlite path or postgres:// DSN, empty = in-memory
	LogLevel  string `env:"ARCANE_LOG_LEVEL" envDefault:"info"`
}

// ParseRuntime loads Runtime from environment variables.
func ParseRuntime() (Runtime, error) {
	var rt Runtime
	if err := env.Parse(&rt); err != nil {
		return rt, fmt.Errorf("parse env: %w", err)
	}
	return rt, nil
}
