package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/pirecall/internal/model"
)

func record(mode string, position, hints int, seconds int, reason string) model.SessionRecord {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	return model.SessionRecord{
		Mode:      mode,
		StartedAt: start,
		EndedAt:   start.Add(time.Duration(seconds) * time.Second),
		Position:  position,
		HintsUsed: hints,
		EndReason: reason,
	}
}

func TestSessionMetrics(t *testing.T) {
	dpm, unassisted := SessionMetrics(30, 3, 60000)
	if dpm != 30 {
		t.Fatalf("expected 30 digits/min, got %.2f", dpm)
	}
	if unassisted != 0.9 {
		t.Fatalf("expected 0.9 unassisted, got %.2f", unassisted)
	}
	if dpm, unassisted := SessionMetrics(0, 0, 0); dpm != 0 || unassisted != 0 {
		t.Fatalf("expected zeros for empty session")
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]model.SessionRecord{
		record("timed", 10, 0, 60, "timeout"),
		record("timed", 20, 2, 30, "mismatch"),
		record("practice", 30, 4, 120, "left"),
	})
	if sum.Sessions != 3 || sum.Best != 30 || sum.TotalHints != 6 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.AvgPosition != 20 {
		t.Fatalf("expected avg 20, got %.2f", sum.AvgPosition)
	}
	if sum.Reasons["timeout"] != 1 || sum.Reasons["left"] != 1 {
		t.Fatalf("unexpected reasons: %v", sum.Reasons)
	}
	if got := FormatReasons(sum.Reasons); got != "left=1 mismatch=1 timeout=1" {
		t.Fatalf("unexpected reasons format: %q", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %.1f, got %.1f", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
}

func TestResample(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	got := Resample(values, 4)
	if len(got) != 4 || got[0] != 0 || got[3] != 9 {
		t.Fatalf("unexpected resample: %v", got)
	}
	if got := Resample(values, 1); len(got) != 1 || got[0] != 9 {
		t.Fatalf("unexpected single-point resample: %v", got)
	}
	if got := Resample(values, 20); len(got) != 10 {
		t.Fatalf("short series must be kept, got %d", len(got))
	}
}

func TestRenderSummaryAndTable(t *testing.T) {
	pressed, expected := 9, 2
	rec := record("timed", 5, 0, 12, "mismatch")
	rec.MismatchPressed = &pressed
	rec.MismatchExpected = &expected
	sessions := []model.SessionRecord{rec, record("practice", 40, 5, 300, "left")}

	var buf bytes.Buffer
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if err := RenderCurve(&buf, sessions, 2, 20); err != nil {
		t.Fatalf("render curve: %v", err)
	}
	if err := RenderSessionTable(&buf, sessions); err != nil {
		t.Fatalf("render table: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Sessions: 2", "Best: 40 digits", "Score curve", "9→2", "practice"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("output missing %q:\n%s", needle, out)
		}
	}

	var empty bytes.Buffer
	if err := RenderSummary(&empty, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(empty.String(), "No sessions found.") {
		t.Fatalf("expected empty notice")
	}
}
