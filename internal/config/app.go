package config

import (
	"errors"
	"fmt"
)

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	cfg := AppConfig{
		Server: serverCfg,
		Log:    logCfg,
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate rejects settings env parsing accepts but the ledger cannot run with.
func (c AppConfig) Validate() error {
	if c.Server.LockTimeout <= 0 {
		return fmt.Errorf("LOCK_TIMEOUT must be positive, got %s", c.Server.LockTimeout)
	}
	if c.Log.MaxMB < 0 {
		return errors.New("LOG_MAX_MB must not be negative")
	}
	return nil
}
