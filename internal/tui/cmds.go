package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pirecall/internal/game"
	"github.com/verte-zerg/pirecall/internal/model"
)

const ioTimeout = 5 * time.Second

type tickMsg struct {
	session uint64
	at      time.Time
}

type pulseDoneMsg struct {
	seq int
}

type recordsMsg struct {
	scores map[game.Mode]int
	err    error
}

type sessionSavedMsg struct {
	id  int64
	err error
}

// waitForTick blocks on the next countdown tick. A closed channel means the
// clock stopped and yields no message.
func waitForTick(session uint64, ch <-chan time.Time) tea.Cmd {
	return func() tea.Msg {
		at, ok := <-ch
		if !ok {
			return nil
		}
		return tickMsg{session: session, at: at}
	}
}

func loadHighScore(req game.HighScoreRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return req.Load(ctx)
	}
}

func loadRecords(scores game.ScoreStore) tea.Cmd {
	if scores == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		out := recordsMsg{scores: make(map[game.Mode]int, len(game.Modes))}
		for _, mode := range game.Modes {
			score, found, err := scores.Get(ctx, mode.ScoreKey())
			if err != nil {
				out.err = err
				continue
			}
			if found {
				out.scores[mode] = score
			}
		}
		return out
	}
}

func saveSession(history HistoryStore, rec model.SessionRecord) tea.Cmd {
	if history == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		id, err := history.InsertSession(ctx, rec)
		return sessionSavedMsg{id: id, err: err}
	}
}

func pulseDone(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return pulseDoneMsg{seq: seq}
	})
}

// recordFromResult converts a finished session to its history row.
func recordFromResult(res game.Result) model.SessionRecord {
	rec := model.SessionRecord{
		Mode:          res.Mode.String(),
		StartedAt:     res.StartedAt,
		EndedAt:       res.EndedAt,
		Position:      res.Position,
		HintsUsed:     res.HintsUsed,
		TimeRemaining: res.TimeRemaining,
		EndReason:     string(res.Reason),
	}
	if res.Mismatch != nil {
		pressed, expected := res.Mismatch.Pressed, res.Mismatch.Expected
		rec.MismatchPressed = &pressed
		rec.MismatchExpected = &expected
	}
	return rec
}

// worthSaving drops sessions abandoned before any input.
func worthSaving(res game.Result) bool {
	return res.Reason != game.ReasonLeft || res.Position > 0 || res.HintsUsed > 0 || res.Mismatch != nil
}
