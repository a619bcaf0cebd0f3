// Package model defines shared data structures.
package model

import "time"

// Config defines game settings.
type Config struct {
	Mode         string
	TimedSeconds int
	Bell         bool
	Backend      string
	YAMLPath     string
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a finished game session.
type SessionRecord struct {
	ID               int64
	Mode             string
	StartedAt        time.Time
	EndedAt          time.Time
	Position         int
	HintsUsed        int
	TimeRemaining    int
	EndReason        string
	MismatchPressed  *int
	MismatchExpected *int
}

// DurationMs returns the session length in milliseconds.
func (r SessionRecord) DurationMs() int64 {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt).Milliseconds()
}

// ScoreEntry is a stored high score.
type ScoreEntry struct {
	Key   string
	Score int
}
