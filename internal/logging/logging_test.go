package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	if level, err := ParseLevel(""); err != nil || level != zerolog.InfoLevel {
		t.Fatalf("expected info default, got %v %v", level, err)
	}
	if level, err := ParseLevel(" Debug "); err != nil || level != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v %v", level, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Console(&buf, zerolog.WarnLevel)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pirecall.log")
	logger, closer, err := File(path, zerolog.InfoLevel)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	logger.Info().Str("mode", "timed").Msg("session ended")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"mode":"timed"`) {
		t.Fatalf("unexpected log content: %s", data)
	}
}
