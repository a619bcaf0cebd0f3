package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/pirecall/internal/config"
	"github.com/verte-zerg/pirecall/internal/game"
	"github.com/verte-zerg/pirecall/internal/model"
	"github.com/verte-zerg/pirecall/internal/store"
)

func TestHistoryConfig(t *testing.T) {
	cfg, err := historyConfig("challenge", "2026-01-02", 5, 3)
	if err != nil {
		t.Fatalf("history config: %v", err)
	}
	if cfg.Mode != "timed" || cfg.Last != 5 || cfg.CurveWindow != 3 || cfg.Since == nil {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := historyConfig("blitz", "", 0, 1); err == nil {
		t.Fatalf("expected invalid mode error")
	}
	if _, err := historyConfig("", "01/02/2026", 0, 1); err == nil {
		t.Fatalf("expected invalid since error")
	}
	if _, err := historyConfig("", "", 0, 0); err == nil {
		t.Fatalf("expected invalid window error")
	}
}

func TestValidateConfig(t *testing.T) {
	ok := model.Config{TimedSeconds: 60, Backend: backendYAML, Mode: "practice"}
	if err := validateConfig(ok); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
	bad := []model.Config{
		{TimedSeconds: 0, Backend: backendSQLite},
		{TimedSeconds: 60, Backend: "redis"},
		{TimedSeconds: 60, Backend: backendSQLite, Mode: "sprint"},
	}
	for _, cfg := range bad {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pirecall", "config.toml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write default config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Game.Mode != nil || cfg.Storage.Backend != nil {
		t.Fatalf("expected commented template to leave values unset: %+v", cfg)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	uncommented := strings.NewReplacer("# mode", "mode", "# timed-seconds", "timed-seconds").Replace(string(raw))
	if err := os.WriteFile(path, []byte(uncommented), 0o644); err != nil {
		t.Fatalf("rewrite template: %v", err)
	}
	cfg, err = config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load uncommented template: %v", err)
	}
	if cfg.Game.Mode == nil || *cfg.Game.Mode != "timed" {
		t.Fatalf("expected mode timed, got %+v", cfg.Game.Mode)
	}
	if cfg.Game.TimedSeconds == nil || *cfg.Game.TimedSeconds != game.DefaultTimedSeconds {
		t.Fatalf("expected default seconds, got %+v", cfg.Game.TimedSeconds)
	}
}

func TestWriteDefaultConfigKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nbell = false\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write default config: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "[game]\nbell = false\n" {
		t.Fatalf("existing config overwritten: %q", raw)
	}
}

func TestOpenScoresAndList(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "pirecall.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	if _, err := openScores(model.Config{Backend: "redis"}, st); err == nil {
		t.Fatalf("expected unknown backend error")
	}
	scores, err := openScores(model.Config{Backend: backendYAML, YAMLPath: filepath.Join(dir, "scores.yaml")}, st)
	if err != nil {
		t.Fatalf("open yaml scores: %v", err)
	}
	ctx := context.Background()
	if err := scores.Set(ctx, game.ModeTimed.ScoreKey(), 21); err != nil {
		t.Fatalf("set: %v", err)
	}
	entries, err := listScores(ctx, scores, game.Modes)
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(entries) != 2 || entries[0].Key != "timed" || entries[0].Score != 21 || entries[1].Score != 0 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if _, found, _ := st.Get(ctx, game.ModeTimed.ScoreKey()); found {
		t.Fatalf("yaml backend wrote to sqlite")
	}
}

type countingCloser struct {
	calls int
	err   error
}

func (c *countingCloser) Close() error {
	c.calls++
	return c.err
}

func TestCloseQuietly(t *testing.T) {
	closeQuietly(nil)

	c := &countingCloser{err: errors.New("disk gone")}
	closeQuietly(c)
	if c.calls != 1 {
		t.Fatalf("expected one close call, got %d", c.calls)
	}
}
