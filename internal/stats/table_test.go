package stats

import (
	"bytes"
	"testing"

	"github.com/verte-zerg/pirecall/internal/model"
)

func TestTextTableAlignsColumns(t *testing.T) {
	tbl := newTextTable(
		column{title: "Mode"},
		column{title: "Digits", right: true},
		column{title: "Hints", right: true},
	)
	tbl.add("timed", "42", "0")
	tbl.add("practice", "7", "12")

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Mode     Digits Hints" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "timed        42     0" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "practice      7    12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableShortRowsAndWideRunes(t *testing.T) {
	tbl := newTextTable(column{title: "Key"}, column{title: "N", right: true})
	tbl.add("円周率", "3")
	tbl.add("pi")
	tbl.add("x", "1", "ignored")

	lines := tbl.lines()
	want := []string{
		"Key    N",
		"円周率 3",
		"pi      ",
		"x      1",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestTextTableWithoutColumnsIsEmpty(t *testing.T) {
	if lines := newTextTable().lines(); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestRenderScores(t *testing.T) {
	var buf bytes.Buffer
	entries := []model.ScoreEntry{{Key: "timed", Score: 42}, {Key: "practice", Score: 7}}
	if err := RenderScores(&buf, entries); err != nil {
		t.Fatalf("render scores: %v", err)
	}
	want := "Mode     Best\ntimed      42\npractice    7\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q", buf.String())
	}
}
