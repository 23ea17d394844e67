package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marketplace-ledger/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitWritesToFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.log")
	Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1, Component: "ledger-test"})
	t.Cleanup(func() { Init(config.LogConfig{Level: "info"}) })

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("global level = %v, want debug", zerolog.GlobalLevel())
	}
	log.Info().Str("job_id", "j1").Msg("job paid")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"component":"ledger-test"`) || !strings.Contains(out, `"job_id":"j1"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
}

func TestInitFallsBackToStdoutOnBadFile(t *testing.T) {
	Init(config.LogConfig{Level: "warn", File: filepath.Join(t.TempDir(), "missing", "ledger.log")})
	t.Cleanup(func() { Init(config.LogConfig{Level: "info"}) })

	if Writer() != os.Stdout {
		t.Fatal("expected stdout sink when log file cannot be opened")
	}
}

func TestInitUnknownLevelDefaultsToInfo(t *testing.T) {
	Init(config.LogConfig{Level: "loud"})
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("global level = %v, want info", zerolog.GlobalLevel())
	}
}
