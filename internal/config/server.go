package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	LockTimeout time.Duration `env:"LOCK_TIMEOUT" envDefault:"5s"`
	AutoMigrate bool          `env:"AUTO_MIGRATE" envDefault:"true"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// AdminAPIKey guards /api/admin when set.
	AdminAPIKey string `env:"ADMIN_API_KEY"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
