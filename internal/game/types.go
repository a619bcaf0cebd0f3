// Package game implements the digit-recall session engine.
package game

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mode selects the failure policy and clock behavior of a session.
type Mode int

const (
	// ModeTimed ends on the first mismatch or when the countdown expires.
	ModeTimed Mode = iota
	// ModePractice never ends on its own; mismatches may be retried.
	ModePractice
)

const (
	// DefaultTimedSeconds is the countdown length of a timed session.
	DefaultTimedSeconds = 60
	// HapticDuration is the vibration length requested on every mismatch.
	HapticDuration = 200 * time.Millisecond
	// PulseDuration is how long the correct-answer pulse stays visible.
	PulseDuration = 150 * time.Millisecond
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeTimed, ModePractice}

func (m Mode) String() string {
	switch m {
	case ModeTimed:
		return "timed"
	case ModePractice:
		return "practice"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ScoreKey is the persistence key of the mode's high score.
func (m Mode) ScoreKey() string {
	return "highscore." + m.String()
}

// ParseMode accepts "timed" (or "challenge") and "practice".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "timed", "challenge":
		return ModeTimed, nil
	case "practice":
		return ModePractice, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (use timed or practice)", s)
	}
}

// EndReason records why a session reached its terminal state.
type EndReason string

const (
	ReasonNone      EndReason = ""
	ReasonMismatch  EndReason = "mismatch"
	ReasonTimeout   EndReason = "timeout"
	ReasonCompleted EndReason = "completed"
	ReasonLeft      EndReason = "left"
)

// Mismatch is the most recent incorrect input.
type Mismatch struct {
	Pressed  int
	Expected int
}

// Clock drives Tick once per second while started.
type Clock interface {
	Start()
	Stop()
}

// ScoreStore is the key-value persistence capability for high scores.
// Get reports found=false for an absent key.
type ScoreStore interface {
	Get(ctx context.Context, key string) (score int, found bool, err error)
	Set(ctx context.Context, key string, score int) error
}

// Haptics delivers fire-and-forget vibration requests.
type Haptics interface {
	Vibrate(d time.Duration)
}

// EventType names a one-shot notification.
type EventType string

const (
	EventPulse        EventType = "pulse"
	EventScroll       EventType = "scroll"
	EventMismatch     EventType = "mismatch"
	EventClockStarted EventType = "clock_started"
	EventEnded        EventType = "ended"
)

// Event is emitted alongside a state update. Fields beyond Type are set
// only for the event types that carry them.
type Event struct {
	Type     EventType
	Duration time.Duration
	Mismatch Mismatch
	Result   Result
}

// Result summarizes a finished session.
type Result struct {
	Mode          Mode
	StartedAt     time.Time
	EndedAt       time.Time
	Position      int
	HintsUsed     int
	TimeRemaining int
	Reason        EndReason
	Mismatch      *Mismatch
	HighScore     int
	NewRecord     bool
}

// Snapshot is the read-only display state of the active session.
type Snapshot struct {
	Mode           Mode
	Position       int
	RevealedDigits string
	Expected       int
	TimeRemaining  int
	ClockRunning   bool
	Ended          bool
	Reason         EndReason
	LastMismatch   *Mismatch
	HintsUsed      int
	HighScore      int
	Length         int
}

// HighScoreLoaded carries the result of an asynchronous high score read.
type HighScoreLoaded struct {
	Session uint64
	Mode    Mode
	Score   int
	Err     error
}

// HighScoreRequest is a pending high score read issued by Start or Restart.
// Load may run on any goroutine; its result goes back through
// Engine.ApplyHighScore on the engine's goroutine.
type HighScoreRequest struct {
	Session uint64
	Mode    Mode
	scores  ScoreStore
}

// Load reads the stored high score. Absent keys resolve to 0.
func (r HighScoreRequest) Load(ctx context.Context) HighScoreLoaded {
	msg := HighScoreLoaded{Session: r.Session, Mode: r.Mode}
	if r.scores == nil {
		return msg
	}
	score, found, err := r.scores.Get(ctx, r.Mode.ScoreKey())
	if err != nil {
		msg.Err = err
		return msg
	}
	if found {
		msg.Score = score
	}
	return msg
}
