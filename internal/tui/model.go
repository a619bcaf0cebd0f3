// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/pirecall/internal/game"
	"github.com/verte-zerg/pirecall/internal/model"
)

type screen int

const (
	screenHome screen = iota
	screenGame
)

const digitRows = 4

// TickSource is the countdown clock the engine drives and the UI listens to.
type TickSource interface {
	game.Clock
	C() <-chan time.Time
}

// HistoryStore persists finished sessions.
type HistoryStore interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error)
}

// Options wires the UI to its collaborators.
type Options struct {
	Config    model.Config
	Scores    game.ScoreStore
	History   HistoryStore
	Ticker    TickSource
	Haptics   game.Haptics
	Logger    zerolog.Logger
	StartMode *game.Mode
	Now       func() time.Time
}

// Model implements the Bubble Tea game UI.
type Model struct {
	config  model.Config
	scores  game.ScoreStore
	history HistoryStore
	ticker  TickSource
	logger  zerolog.Logger

	engine  *game.Engine
	pending []game.Event
	initCmd tea.Cmd

	screen   screen
	selected int
	records  map[game.Mode]int

	width  int
	height int

	viewport viewport.Model
	help     help.Model
	keys     keyMap

	flash    bool
	flashSeq int
	result   *game.Result
}

// NewModel constructs the UI. With StartMode set the first session begins
// immediately instead of showing the mode menu.
func NewModel(opts Options) *Model {
	m := &Model{
		config:   opts.Config,
		scores:   opts.Scores,
		history:  opts.History,
		ticker:   opts.Ticker,
		logger:   opts.Logger,
		records:  make(map[game.Mode]int),
		viewport: viewport.New(40, digitRows),
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
	m.engine = game.New(game.Options{
		Clock:        opts.Ticker,
		Scores:       opts.Scores,
		Haptics:      opts.Haptics,
		Observer:     m.observe,
		Logger:       opts.Logger,
		TimedSeconds: opts.Config.TimedSeconds,
		Now:          opts.Now,
	})
	if mode, err := game.ParseMode(opts.Config.Mode); err == nil {
		m.selected = modeIndex(mode)
	}
	if opts.StartMode != nil {
		m.selected = modeIndex(*opts.StartMode)
		m.initCmd = m.startGame(*opts.StartMode)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(loadRecords(m.scores), m.initCmd)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQ) {
			return m, m.quit()
		}
		if m.screen == screenHome {
			return m, m.updateHome(msg)
		}
		return m, m.updateGame(msg)
	case tickMsg:
		if m.screen != screenGame || msg.session != m.engine.Session() {
			return m, nil
		}
		m.engine.Tick()
		cmds := m.drainEvents()
		if snap := m.engine.Snapshot(); snap.ClockRunning && !snap.Ended {
			cmds = append(cmds, waitForTick(msg.session, m.ticker.C()))
		}
		return m, tea.Batch(cmds...)
	case game.HighScoreLoaded:
		m.engine.ApplyHighScore(msg)
		return m, nil
	case recordsMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("failed to load records")
		}
		for mode, score := range msg.scores {
			m.records[mode] = score
		}
		return m, nil
	case pulseDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = false
			m.refreshDigits()
		}
		return m, nil
	case sessionSavedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("failed to save session")
		} else {
			m.logger.Debug().Int64("id", msg.id).Msg("session saved")
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateHome(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(game.Modes)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Select):
		return m.startGame(game.Modes[m.selected])
	}
	return nil
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	ended := m.engine.Snapshot().Ended
	switch {
	case key.Matches(msg, m.keys.Back):
		m.engine.Leave()
		cmds := m.drainEvents()
		m.screen = screenHome
		m.result = nil
		return tea.Batch(append(cmds, loadRecords(m.scores))...)
	case ended && key.Matches(msg, m.keys.Restart):
		m.reset()
		req := m.engine.Restart()
		m.refreshDigits()
		return loadHighScore(req)
	case key.Matches(msg, m.keys.Digit):
		m.engine.SubmitDigit(int(msg.String()[0] - '0'))
	case key.Matches(msg, m.keys.Hint):
		m.engine.UseHint()
	default:
		return nil
	}
	return tea.Batch(m.drainEvents()...)
}

func (m *Model) startGame(mode game.Mode) tea.Cmd {
	m.screen = screenGame
	m.reset()
	req := m.engine.Start(mode)
	m.refreshDigits()
	return loadHighScore(req)
}

func (m *Model) reset() {
	m.result = nil
	m.flash = false
	m.pending = nil
	m.viewport.GotoTop()
}

// quit ends any running session so its score and history are kept, then
// exits once those writes are done.
func (m *Model) quit() tea.Cmd {
	m.engine.Leave()
	cmds := m.drainEvents()
	if len(cmds) == 0 {
		return tea.Quit
	}
	return tea.Sequence(tea.Batch(cmds...), tea.Quit)
}

func (m *Model) observe(ev game.Event) {
	m.pending = append(m.pending, ev)
}

// drainEvents turns the engine's one-shot notifications into UI effects.
func (m *Model) drainEvents() []tea.Cmd {
	events := m.pending
	m.pending = nil
	var cmds []tea.Cmd
	for _, ev := range events {
		switch ev.Type {
		case game.EventPulse:
			m.flash = true
			m.flashSeq++
			cmds = append(cmds, pulseDone(ev.Duration, m.flashSeq))
		case game.EventScroll:
			m.refreshDigits()
			m.viewport.GotoBottom()
		case game.EventClockStarted:
			if m.ticker != nil {
				cmds = append(cmds, waitForTick(m.engine.Session(), m.ticker.C()))
			}
		case game.EventMismatch:
			m.logger.Debug().Int("pressed", ev.Mismatch.Pressed).Int("expected", ev.Mismatch.Expected).Msg("mismatch")
		case game.EventEnded:
			res := ev.Result
			m.result = &res
			m.flash = false
			if res.HighScore > m.records[res.Mode] {
				m.records[res.Mode] = res.HighScore
			}
			if worthSaving(res) {
				if cmd := saveSession(m.history, recordFromResult(res)); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}
	}
	m.refreshDigits()
	return cmds
}

func (m *Model) resize() {
	width := m.contentWidth()
	m.viewport.Width = width
	height := digitRows
	if m.height > 0 && m.height < 20 {
		height = 2
	}
	m.viewport.Height = height
	m.refreshDigits()
	m.viewport.GotoBottom()
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 40
	}
	width := int(float64(m.width) * 0.70)
	if width > 72 {
		width = 72
	}
	if width < 12 {
		width = 12
	}
	return width
}

func (m *Model) refreshDigits() {
	if !m.engine.Active() {
		return
	}
	snap := m.engine.Snapshot()
	m.viewport.SetContent(renderDigits(snap.RevealedDigits, m.viewport.Width, m.flash, !snap.Ended))
}

func modeIndex(mode game.Mode) int {
	for i, candidate := range game.Modes {
		if candidate == mode {
			return i
		}
	}
	return 0
}
