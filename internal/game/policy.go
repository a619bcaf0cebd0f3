package game

// policy holds the mode-dependent parts of the state machine.
type policy interface {
	gatesClock() bool
	onMismatch(e *Engine)
	onClockExpired(e *Engine)
}

func policyFor(mode Mode) policy {
	if mode == ModePractice {
		return practicePolicy{}
	}
	return timedPolicy{}
}

type timedPolicy struct{}

func (timedPolicy) gatesClock() bool { return true }

func (timedPolicy) onMismatch(e *Engine) { e.finish(ReasonMismatch) }

func (timedPolicy) onClockExpired(e *Engine) { e.finish(ReasonTimeout) }

// practicePolicy has no clock and tolerates mismatches.
type practicePolicy struct{}

func (practicePolicy) gatesClock() bool { return false }

func (practicePolicy) onMismatch(*Engine) {}

func (practicePolicy) onClockExpired(*Engine) {}
