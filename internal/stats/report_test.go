package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/pirecall/internal/model"
	"github.com/verte-zerg/pirecall/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pirecall.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		rec := model.SessionRecord{
			Mode:      "timed",
			StartedAt: start,
			EndedAt:   start.Add(30 * time.Second),
			Position:  10 * (i + 1),
			EndReason: "timeout",
		}
		id, err := st.InsertSession(ctx, rec)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.HistoryConfig{
		Mode:        "timed",
		Last:        2,
		CurveWindow: 2,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].ID != ids[1] || report.Sessions[1].ID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if report.Summary.Best != 30 {
		t.Fatalf("expected best 30, got %d", report.Summary.Best)
	}
	if len(report.Curve) != 2 || report.Curve[1] != 25 {
		t.Fatalf("unexpected curve: %v", report.Curve)
	}
	if report.ByMode["timed"].Sessions != 2 {
		t.Fatalf("unexpected per-mode summary: %+v", report.ByMode)
	}
}
