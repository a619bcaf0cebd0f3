package tui

import (
	"io"
	"time"
)

// Bell rings the terminal bell in place of a vibration motor.
type Bell struct {
	w       io.Writer
	enabled bool
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer, enabled bool) Bell {
	return Bell{w: w, enabled: enabled}
}

// Vibrate implements game.Haptics. Terminals have no pulse length, so the
// duration is ignored.
func (b Bell) Vibrate(time.Duration) {
	if !b.enabled || b.w == nil {
		return
	}
	_, _ = io.WriteString(b.w, "\a")
}
