package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	piPrefix  = "3."
	groupSize = 10
	cursor    = "│"
)

// digitGroups splits revealed digits into fixed-size groups.
func digitGroups(revealed string) []string {
	groups := make([]string, 0, len(revealed)/groupSize+1)
	for start := 0; start < len(revealed); start += groupSize {
		end := start + groupSize
		if end > len(revealed) {
			end = len(revealed)
		}
		groups = append(groups, revealed[start:end])
	}
	return groups
}

// layoutDigits packs "3." and the digit groups into lines no wider than
// width. A group wider than the line is split across lines.
func layoutDigits(revealed string, width int) [][]string {
	tokens := append([]string{piPrefix}, digitGroups(revealed)...)
	if width <= 0 {
		return [][]string{tokens}
	}
	var lines [][]string
	var line []string
	lineWidth := 0
	for _, tok := range tokens {
		for tok != "" {
			tokWidth := runewidth.StringWidth(tok)
			gap := 0
			if len(line) > 0 {
				gap = 1
			}
			if lineWidth+gap+tokWidth <= width {
				line = append(line, tok)
				lineWidth += gap + tokWidth
				break
			}
			if len(line) > 0 {
				lines = append(lines, line)
				line, lineWidth = nil, 0
				continue
			}
			head := runewidth.Truncate(tok, width, "")
			if head == "" {
				head = tok[:1]
			}
			lines = append(lines, []string{head})
			tok = tok[len(head):]
		}
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// renderDigits styles the laid out digits. The most recent digit takes the
// flash style while a correct pulse is showing.
func renderDigits(revealed string, width int, flash, showCursor bool) string {
	lines := layoutDigits(revealed, width-runewidth.StringWidth(cursor))
	out := make([]string, 0, len(lines))
	for li, line := range lines {
		parts := make([]string, 0, len(line))
		for ti, tok := range line {
			last := li == len(lines)-1 && ti == len(line)-1
			switch {
			case li == 0 && ti == 0 && tok == piPrefix:
				parts = append(parts, prefixStyle.Render(tok))
			case last && flash && revealed != "":
				parts = append(parts, digitStyle.Render(tok[:len(tok)-1])+flashStyle.Render(tok[len(tok)-1:]))
			default:
				parts = append(parts, digitStyle.Render(tok))
			}
		}
		rendered := strings.Join(parts, " ")
		if li == len(lines)-1 && showCursor {
			rendered += cursorStyle.Render(cursor)
		}
		out = append(out, rendered)
	}
	return strings.Join(out, "\n")
}
