package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// CLIConfig drives ledgerctl. The DSN is optional here so that --help works
// without a database; commands that need one check it themselves.
type CLIConfig struct {
	PostgresDSN     string        `env:"POSTGRES_DSN"`
	LockTimeout     time.Duration `env:"LOCK_TIMEOUT" envDefault:"5s"`
	RetryMaxElapsed time.Duration `env:"RETRY_MAX_ELAPSED" envDefault:"10s"`
}

func LoadCLI() (CLIConfig, error) {
	var cfg CLIConfig
	err := env.Parse(&cfg)
	return cfg, err
}
