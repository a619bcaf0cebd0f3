// Package stats contains history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/pirecall/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes digits per minute and the share of digits
// recalled without hints.
func SessionMetrics(position, hints int, durationMs int64) (dpm, unassisted float64) {
	if position > 0 {
		recalled := position - hints
		if recalled < 0 {
			recalled = 0
		}
		unassisted = float64(recalled) / float64(position)
	}
	if durationMs <= 0 {
		return 0, unassisted
	}
	minutes := float64(durationMs) / 60000.0
	dpm = float64(position) / minutes
	return dpm, unassisted
}

// Summary aggregates a list of sessions.
type Summary struct {
	Sessions      int
	Best          int
	AvgPosition   float64
	AvgDPM        float64
	AvgUnassisted float64
	TotalHints    int
	Reasons       map[string]int
}

// Summarize aggregates sessions into a Summary.
func Summarize(sessions []model.SessionRecord) Summary {
	sum := Summary{Reasons: map[string]int{}}
	if len(sessions) == 0 {
		return sum
	}
	var totalPos, totalDPM, totalUnassisted float64
	for _, s := range sessions {
		dpm, unassisted := SessionMetrics(s.Position, s.HintsUsed, s.DurationMs())
		totalPos += float64(s.Position)
		totalDPM += dpm
		totalUnassisted += unassisted
		sum.TotalHints += s.HintsUsed
		sum.Reasons[s.EndReason]++
		if s.Position > sum.Best {
			sum.Best = s.Position
		}
	}
	count := float64(len(sessions))
	sum.Sessions = len(sessions)
	sum.AvgPosition = totalPos / count
	sum.AvgDPM = totalDPM / count
	sum.AvgUnassisted = totalUnassisted / count
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample stretches or shrinks values to width points by nearest index.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	if width == 1 {
		return values[len(values)-1:]
	}
	out := make([]float64, width)
	for i := range out {
		idx := int(float64(i) * float64(len(values)-1) / float64(width-1))
		out[i] = values[idx]
	}
	return out
}

// ScoreCurve returns the moving average of session positions.
func ScoreCurve(sessions []model.SessionRecord, window int) []float64 {
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = float64(s.Position)
	}
	return MovingAverage(values, window)
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Best: %d digits", sum.Best),
		fmt.Sprintf("Avg digits: %.1f", sum.AvgPosition),
		fmt.Sprintf("Avg digits/min: %.1f", sum.AvgDPM),
		fmt.Sprintf("Unassisted: %.1f%%", sum.AvgUnassisted*100),
		fmt.Sprintf("Hints used: %d", sum.TotalHints),
		fmt.Sprintf("Endings: %s", FormatReasons(sum.Reasons)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatReasons renders reason counts as "a=1 b=2" in key order.
func FormatReasons(reasons map[string]int) string {
	keys := make([]string, 0, len(reasons))
	for k := range reasons {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		label := k
		if label == "" {
			label = "unknown"
		}
		parts = append(parts, fmt.Sprintf("%s=%d", label, reasons[k]))
	}
	return strings.Join(parts, " ")
}

// RenderCurve prints the score sparkline sized to width columns.
func RenderCurve(w io.Writer, sessions []model.SessionRecord, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	curve := Resample(ScoreCurve(sessions, window), width)
	minVal, maxVal := curve[0], curve[0]
	for _, v := range curve {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if _, err := fmt.Fprintf(w, "Score curve (window %d, min %.1f, max %.1f)\n", window, minVal, maxVal); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(curve)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// SessionRows formats sessions as table rows, newest first.
func SessionRows(sessions []model.SessionRecord) [][]string {
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		miss := "-"
		if s.MismatchPressed != nil && s.MismatchExpected != nil {
			miss = fmt.Sprintf("%d→%d", *s.MismatchPressed, *s.MismatchExpected)
		}
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Mode,
			fmt.Sprintf("%d", s.Position),
			fmt.Sprintf("%d", s.HintsUsed),
			fmt.Sprintf("%.1fs", float64(s.DurationMs())/1000),
			s.EndReason,
			miss,
		})
	}
	return rows
}

// SessionHeaders are the column titles matching SessionRows.
var SessionHeaders = []string{"Ended", "Mode", "Digits", "Hints", "Time", "Reason", "Miss"}

// RenderSessionTable prints sessions as an aligned table.
func RenderSessionTable(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	cols := make([]column, len(SessionHeaders))
	for i, title := range SessionHeaders {
		cols[i] = column{title: title, right: i >= 2 && i <= 4}
	}
	t := newTextTable(cols...)
	for _, row := range SessionRows(sessions) {
		t.add(row...)
	}
	return t.writeTo(w)
}

// RenderScores prints stored high scores as an aligned table.
func RenderScores(w io.Writer, entries []model.ScoreEntry) error {
	t := newTextTable(column{title: "Mode"}, column{title: "Best", right: true})
	for _, e := range entries {
		t.add(e.Key, fmt.Sprintf("%d", e.Score))
	}
	return t.writeTo(w)
}
