package config

import "github.com/caarlos0/env/v11"

// TestConfig selects the database used by integration tests. When
// TestPostgresDSN is empty the tests start a disposable container instead.
type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN"`
	PostgresImage   string `env:"TEST_POSTGRES_IMAGE" envDefault:"postgres:16-alpine"`
	UseContainers   bool   `env:"TEST_USE_CONTAINERS" envDefault:"true"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	err := env.Parse(&cfg)
	return cfg, err
}
