package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pirecall/internal/digits"
	"github.com/verte-zerg/pirecall/internal/game"
)

var (
	goldColor  = lipgloss.Color("#AB8B0C")
	mutedColor = lipgloss.Color("#8BADC9")
	greenColor = lipgloss.Color("#7EC87E")
	amberColor = lipgloss.Color("#E6C84E")
	redColor   = lipgloss.Color("#C0392B")

	titleStyle    = lipgloss.NewStyle().Foreground(goldColor).Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	prefixStyle   = lipgloss.NewStyle().Foreground(goldColor).Bold(true)
	digitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	flashStyle    = lipgloss.NewStyle().Foreground(greenColor).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(goldColor).Blink(true)
	errorStyle    = lipgloss.NewStyle().Foreground(redColor).Bold(true)
	recordStyle   = lipgloss.NewStyle().Foreground(amberColor).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(goldColor).Bold(true)
	keyStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
	wrongKeyStyle = keyStyle.Copy().
			BorderForeground(redColor).
			Foreground(redColor)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(goldColor).
			Padding(0, 1)
)

var keypadRows = [][]int{{1, 2, 3, 4, 5}, {6, 7, 8, 9, 0}}

var modeBlurbs = map[game.Mode]string{
	game.ModeTimed:    "beat the clock, one mistake ends it",
	game.ModePractice: "no clock, retry mistakes, hints allowed",
}

// View implements tea.Model.
func (m *Model) View() string {
	var body, footer string
	if m.screen == screenHome {
		body = m.homeView()
		footer = m.help.View(m.keys.homeHelp())
	} else {
		body = m.gameView()
		if m.result != nil {
			footer = m.help.View(m.keys.overHelp())
		} else {
			footer = m.help.View(m.keys.playHelp())
		}
	}
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	main := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	return main + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) homeView() string {
	lines := []string{
		titleStyle.Render("π  Digit Recall"),
		subtleStyle.Render("How many digits of π do you know?"),
		"",
	}
	for i, mode := range game.Modes {
		marker := "  "
		name := fmt.Sprintf("%-9s", modeLabel(mode))
		if i == m.selected {
			marker = selectedStyle.Render("› ")
			name = selectedStyle.Render(name)
		}
		line := marker + name + "  " + subtleStyle.Render(modeBlurbs[mode])
		if best := m.records[mode]; best > 0 {
			line += "  " + recordStyle.Render(fmt.Sprintf("best %d", best))
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", subtleStyle.Render("3."+digits.Pi[:20]+"…"))
	return strings.Join(lines, "\n")
}

func (m *Model) gameView() string {
	snap := m.engine.Snapshot()
	sections := []string{m.statusLine(snap), panelStyle.Render(m.viewport.View())}
	if m.result != nil {
		sections = append(sections, "", m.resultView(*m.result))
		return strings.Join(sections, "\n")
	}
	sections = append(sections, m.feedbackLine(snap), m.keypadView(snap))
	return strings.Join(sections, "\n")
}

func (m *Model) statusLine(snap game.Snapshot) string {
	parts := []string{
		titleStyle.Render(modeLabel(snap.Mode)),
		fmt.Sprintf("digits %d", snap.Position),
		recordStyle.Render(fmt.Sprintf("best %d", snap.HighScore)),
	}
	if snap.HintsUsed > 0 {
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("hints %d", snap.HintsUsed)))
	}
	if snap.Mode == game.ModeTimed {
		parts = append(parts, timerStyle(snap.TimeRemaining).Render(fmt.Sprintf("%ds", snap.TimeRemaining)))
	}
	return strings.Join(parts, subtleStyle.Render("  ·  "))
}

// timerStyle shifts from green to amber to red as the countdown runs low.
func timerStyle(remaining int) lipgloss.Style {
	switch {
	case remaining > 30:
		return lipgloss.NewStyle().Foreground(greenColor).Bold(true)
	case remaining > 10:
		return lipgloss.NewStyle().Foreground(amberColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(redColor).Bold(true)
	}
}

func (m *Model) feedbackLine(snap game.Snapshot) string {
	switch {
	case snap.LastMismatch != nil:
		return errorStyle.Render(fmt.Sprintf("✗ %d is wrong, try again", snap.LastMismatch.Pressed))
	case snap.Mode == game.ModeTimed && !snap.ClockRunning:
		return subtleStyle.Render("Press any digit to start the clock")
	default:
		return ""
	}
}

func (m *Model) keypadView(snap game.Snapshot) string {
	wrong := -1
	if snap.LastMismatch != nil {
		wrong = snap.LastMismatch.Pressed
	}
	rows := make([]string, 0, len(keypadRows))
	for _, row := range keypadRows {
		keys := make([]string, 0, len(row))
		for _, d := range row {
			style := keyStyle
			if d == wrong {
				style = wrongKeyStyle
			}
			keys = append(keys, style.Render(fmt.Sprintf("%d", d)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, keys...))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func (m *Model) resultView(res game.Result) string {
	lines := []string{titleStyle.Render(endHeadline(res.Reason))}
	if res.Mismatch != nil && res.Reason == game.ReasonMismatch {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("You pressed %d, the next digit was %d", res.Mismatch.Pressed, res.Mismatch.Expected)))
	}
	score := fmt.Sprintf("%d digits", res.Position)
	if res.HintsUsed > 0 {
		score += subtleStyle.Render(fmt.Sprintf(" (%d hinted)", res.HintsUsed))
	}
	lines = append(lines, score)
	if res.NewRecord {
		lines = append(lines, recordStyle.Render("New record!"))
	} else {
		lines = append(lines, subtleStyle.Render(fmt.Sprintf("Best %d", res.HighScore)))
	}
	return strings.Join(lines, "\n")
}

func endHeadline(reason game.EndReason) string {
	switch reason {
	case game.ReasonTimeout:
		return "Time's up!"
	case game.ReasonMismatch:
		return "Game over"
	case game.ReasonCompleted:
		return "Every digit recalled!"
	default:
		return "Session ended"
	}
}

func modeLabel(mode game.Mode) string {
	if mode == game.ModeTimed {
		return "Challenge"
	}
	return "Practice"
}
