package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pirecall/internal/digits"
)

const storeTimeout = 2 * time.Second

// Options configures an Engine. Zero values fall back to the π sequence,
// a 60-second countdown, no persistence and no notifications.
type Options struct {
	Sequence     digits.Sequence
	Clock        Clock
	Scores       ScoreStore
	Haptics      Haptics
	Observer     func(Event)
	Logger       zerolog.Logger
	TimedSeconds int
	Now          func() time.Time
}

type sessionState struct {
	mode            Mode
	position        int
	hintsUsed       int
	timeRemaining   int
	clockRunning    bool
	ended           bool
	reason          EndReason
	mismatch        *Mismatch
	highScore       int
	highScoreLoaded bool
	startedAt       time.Time
	endedAt         time.Time
}

// Engine owns exactly one active session. It is not safe for concurrent
// use; callers serialize input, ticks and high score results.
type Engine struct {
	seq          digits.Sequence
	clock        Clock
	scores       ScoreStore
	haptics      Haptics
	observer     func(Event)
	logger       zerolog.Logger
	timedSeconds int
	now          func() time.Time

	active  bool
	session uint64
	policy  policy
	state   sessionState
}

// New constructs an Engine with no active session.
func New(opts Options) *Engine {
	seq := opts.Sequence
	if seq.Len() == 0 {
		seq = digits.PiSequence()
	}
	clock := opts.Clock
	if clock == nil {
		clock = nopClock{}
	}
	seconds := opts.TimedSeconds
	if seconds <= 0 {
		seconds = DefaultTimedSeconds
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		seq:          seq,
		clock:        clock,
		scores:       opts.Scores,
		haptics:      opts.Haptics,
		observer:     opts.Observer,
		logger:       opts.Logger,
		timedSeconds: seconds,
		now:          now,
	}
}

// Start begins a new session in mode, replacing any active one. The
// returned request must be loaded and handed back to ApplyHighScore; until
// then the high score reads as 0.
func (e *Engine) Start(mode Mode) HighScoreRequest {
	if e.active {
		e.stopClock()
	}
	e.active = true
	e.session++
	e.policy = policyFor(mode)
	e.state = sessionState{
		mode:          mode,
		timeRemaining: e.timedSeconds,
		clockRunning:  !e.policy.gatesClock(),
		startedAt:     e.now(),
	}
	e.logger.Debug().Str("mode", mode.String()).Uint64("session", e.session).Msg("session started")
	return HighScoreRequest{Session: e.session, Mode: mode, scores: e.scores}
}

// Restart resets the session for the same mode and re-reads the high score.
func (e *Engine) Restart() HighScoreRequest {
	return e.Start(e.state.mode)
}

// ApplyHighScore stores a loaded high score. A failed read counts as no
// record. Results for an earlier session or arriving after the record was
// already resolved are dropped.
func (e *Engine) ApplyHighScore(msg HighScoreLoaded) bool {
	if !e.active || msg.Session != e.session || e.state.highScoreLoaded {
		return false
	}
	e.state.highScoreLoaded = true
	if msg.Err != nil {
		e.logger.Warn().Err(msg.Err).Str("mode", msg.Mode.String()).Msg("failed to load high score")
		return true
	}
	e.state.highScore = msg.Score
	return true
}

// SubmitDigit classifies d against the next expected digit.
func (e *Engine) SubmitDigit(d int) {
	if !e.active || e.state.ended {
		return
	}
	e.startClock()
	expected := e.seq.At(e.state.position)
	if d == expected {
		e.advance()
		return
	}
	mismatch := Mismatch{Pressed: d, Expected: expected}
	e.state.mismatch = &mismatch
	if e.haptics != nil {
		e.haptics.Vibrate(HapticDuration)
	}
	e.emit(Event{Type: EventMismatch, Duration: HapticDuration, Mismatch: mismatch})
	e.policy.onMismatch(e)
}

// UseHint reveals the next digit as if it had been entered correctly.
func (e *Engine) UseHint() {
	if !e.active || e.state.ended {
		return
	}
	e.startClock()
	e.state.hintsUsed++
	e.advance()
}

// Tick advances the countdown by one second.
func (e *Engine) Tick() {
	s := &e.state
	if !e.active || s.ended || !s.clockRunning || !e.policy.gatesClock() {
		return
	}
	s.timeRemaining--
	if s.timeRemaining <= 0 {
		s.timeRemaining = 0
		e.policy.onClockExpired(e)
	}
}

// Leave tears the session down when its host goes away. An unfinished
// session ends with ReasonLeft so its score still counts.
func (e *Engine) Leave() {
	if !e.active {
		return
	}
	e.stopClock()
	if !e.state.ended {
		e.finish(ReasonLeft)
	}
}

// Active reports whether a session has been started.
func (e *Engine) Active() bool {
	return e.active
}

// Session identifies the active session; it changes on Start and Restart.
func (e *Engine) Session() uint64 {
	return e.session
}

// Snapshot returns the display state of the active session.
func (e *Engine) Snapshot() Snapshot {
	s := e.state
	expected := -1
	if s.position < e.seq.Len() {
		expected = e.seq.At(s.position)
	}
	var mismatch *Mismatch
	if s.mismatch != nil {
		m := *s.mismatch
		mismatch = &m
	}
	return Snapshot{
		Mode:           s.mode,
		Position:       s.position,
		RevealedDigits: e.seq.Prefix(s.position),
		Expected:       expected,
		TimeRemaining:  s.timeRemaining,
		ClockRunning:   s.clockRunning,
		Ended:          s.ended,
		Reason:         s.reason,
		LastMismatch:   mismatch,
		HintsUsed:      s.hintsUsed,
		HighScore:      s.highScore,
		Length:         e.seq.Len(),
	}
}

func (e *Engine) advance() {
	s := &e.state
	s.mismatch = nil
	s.position++
	e.emit(Event{Type: EventPulse, Duration: PulseDuration})
	e.emit(Event{Type: EventScroll})
	if s.position >= e.seq.Len() {
		e.finish(ReasonCompleted)
	}
}

func (e *Engine) startClock() {
	if e.state.clockRunning || !e.policy.gatesClock() {
		return
	}
	e.state.clockRunning = true
	e.clock.Start()
	e.emit(Event{Type: EventClockStarted})
}

func (e *Engine) stopClock() {
	if e.policy != nil && e.policy.gatesClock() {
		e.clock.Stop()
	}
}

func (e *Engine) finish(reason EndReason) {
	s := &e.state
	s.ended = true
	s.reason = reason
	s.endedAt = e.now()
	e.stopClock()
	s.clockRunning = false
	newRecord := e.recordHighScore()
	e.logger.Info().
		Str("mode", s.mode.String()).
		Str("reason", string(reason)).
		Int("position", s.position).
		Int("hints", s.hintsUsed).
		Bool("record", newRecord).
		Msg("session ended")
	e.emit(Event{Type: EventEnded, Result: e.result(newRecord)})
}

func (e *Engine) recordHighScore() bool {
	s := &e.state
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if !s.highScoreLoaded {
		// The asynchronous read has not landed; consult storage directly so a
		// placeholder zero never overwrites a higher record.
		msg := HighScoreRequest{Session: e.session, Mode: s.mode, scores: e.scores}.Load(ctx)
		e.ApplyHighScore(msg)
	}
	if s.position <= s.highScore {
		return false
	}
	s.highScore = s.position
	if e.scores == nil {
		return true
	}
	if err := e.scores.Set(ctx, s.mode.ScoreKey(), s.position); err != nil {
		e.logger.Warn().Err(err).Str("mode", s.mode.String()).Msg("failed to save high score")
	}
	return true
}

func (e *Engine) result(newRecord bool) Result {
	s := e.state
	var mismatch *Mismatch
	if s.mismatch != nil {
		m := *s.mismatch
		mismatch = &m
	}
	return Result{
		Mode:          s.mode,
		StartedAt:     s.startedAt,
		EndedAt:       s.endedAt,
		Position:      s.position,
		HintsUsed:     s.hintsUsed,
		TimeRemaining: s.timeRemaining,
		Reason:        s.reason,
		Mismatch:      mismatch,
		HighScore:     s.highScore,
		NewRecord:     newRecord,
	}
}

func (e *Engine) emit(ev Event) {
	if e.observer != nil {
		e.observer(ev)
	}
}

type nopClock struct{}

func (nopClock) Start() {}

func (nopClock) Stop() {}
