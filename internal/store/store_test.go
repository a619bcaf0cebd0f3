package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/pirecall/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "pirecall.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestScoresRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, found, err := st.Get(ctx, "highscore.timed"); err != nil || found {
		t.Fatalf("expected absent key, found=%v err=%v", found, err)
	}
	if err := st.Set(ctx, "highscore.timed", 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, "highscore.timed", 42); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := st.Set(ctx, "highscore.practice", 7); err != nil {
		t.Fatalf("set practice: %v", err)
	}
	score, found, err := st.Get(ctx, "highscore.timed")
	if err != nil || !found || score != 42 {
		t.Fatalf("expected 42, got %d found=%v err=%v", score, found, err)
	}

	if score, found, _ := st.Get(ctx, "highscore.practice"); !found || score != 7 {
		t.Fatalf("expected practice 7, got %d found=%v", score, found)
	}

	if err := st.ResetScores(ctx, "highscore.practice"); err != nil {
		t.Fatalf("reset one: %v", err)
	}
	if _, found, _ := st.Get(ctx, "highscore.practice"); found {
		t.Fatalf("expected practice score removed")
	}
	if err := st.ResetScores(ctx); err != nil {
		t.Fatalf("reset all: %v", err)
	}
	if _, found, _ := st.Get(ctx, "highscore.timed"); found {
		t.Fatalf("expected every score removed")
	}
}

func TestSessionsFilter(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	pressed, expected := 9, 2
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []model.SessionRecord{
		{Mode: "timed", Position: 5, EndReason: "mismatch", MismatchPressed: &pressed, MismatchExpected: &expected},
		{Mode: "practice", Position: 20, HintsUsed: 2, EndReason: "left"},
		{Mode: "timed", Position: 12, EndReason: "timeout"},
	}
	for i, rec := range records {
		rec.StartedAt = base.Add(time.Duration(i) * time.Hour)
		rec.EndedAt = rec.StartedAt.Add(time.Minute)
		if _, err := st.InsertSession(ctx, rec); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	all, err := st.ListSessions(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	first := all[0]
	if first.MismatchPressed == nil || *first.MismatchPressed != 9 || *first.MismatchExpected != 2 {
		t.Fatalf("mismatch not stored: %+v", first)
	}
	if all[1].MismatchPressed != nil {
		t.Fatalf("expected nil mismatch for practice session")
	}
	if first.DurationMs() != 60000 {
		t.Fatalf("expected 60000ms duration, got %d", first.DurationMs())
	}

	timed, err := st.ListSessions(ctx, model.HistoryConfig{Mode: "timed"})
	if err != nil {
		t.Fatalf("list timed: %v", err)
	}
	if len(timed) != 2 || timed[1].Position != 12 {
		t.Fatalf("unexpected timed sessions: %+v", timed)
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListSessions(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 1 || recent[0].EndReason != "timeout" {
		t.Fatalf("unexpected recent sessions: %+v", recent)
	}
}
