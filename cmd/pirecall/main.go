// Package main provides the CLI entrypoint for pirecall.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/pirecall/internal/clock"
	"github.com/verte-zerg/pirecall/internal/config"
	"github.com/verte-zerg/pirecall/internal/game"
	"github.com/verte-zerg/pirecall/internal/logging"
	"github.com/verte-zerg/pirecall/internal/model"
	"github.com/verte-zerg/pirecall/internal/stats"
	"github.com/verte-zerg/pirecall/internal/statsui"
	"github.com/verte-zerg/pirecall/internal/store"
	"github.com/verte-zerg/pirecall/internal/tui"
)

const (
	backendSQLite = "sqlite"
	backendYAML   = "yaml"

	defaultBackend     = backendSQLite
	defaultCurveWindow = 5
	plainWidthBackup   = 80
)

var (
	playMode    string
	playSeconds int
	playBell    bool
	playBackend string

	scoresReset bool
	scoresMode  string

	historyMode        string
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyPlain       bool
)

// scoreBackend is a high score store that can also be cleared.
type scoreBackend interface {
	game.ScoreStore
	ResetScores(ctx context.Context, keys ...string) error
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pirecall",
		Short:         "Recite the digits of π from memory",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playMode, "mode", "", "start a session right away (timed or practice)")
	rootCmd.Flags().IntVar(&playSeconds, "seconds", game.DefaultTimedSeconds, "countdown length for timed sessions")
	rootCmd.Flags().BoolVar(&playBell, "bell", true, "ring the terminal bell on a wrong digit")
	rootCmd.Flags().StringVar(&playBackend, "backend", defaultBackend, "high score storage (sqlite or yaml)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

type settings struct {
	file config.FileConfig
	env  config.EnvConfig
}

func loadSettings() (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.LoadDotEnv(config.DefaultDotEnvPath()); err != nil {
		return settings{}, err
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return settings{}, err
	}
	return settings{file: fileCfg, env: envCfg}, nil
}

// logLevel resolves the level from the environment, then the config file.
func (s settings) logLevel() (zerolog.Level, error) {
	name := ""
	if s.file.Log.Level != nil {
		name = *s.file.Log.Level
	}
	if s.env.LogLevel != "" {
		name = s.env.LogLevel
	}
	return logging.ParseLevel(name)
}

func (s settings) consoleLogger() (zerolog.Logger, error) {
	level, err := s.logLevel()
	if err != nil {
		return zerolog.Nop(), err
	}
	return logging.Console(os.Stderr, level), nil
}

func (s settings) yamlPath() string {
	if s.file.Storage.YAMLPath != nil && *s.file.Storage.YAMLPath != "" {
		return *s.file.Storage.YAMLPath
	}
	return config.DefaultYAMLScoresPath()
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	set, err := loadSettings()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "seconds", &playSeconds, set.file.Game.TimedSeconds)
	applyBoolConfig(cmd, "bell", &playBell, set.file.Game.Bell)
	applyStringConfig(cmd, "backend", &playBackend, set.file.Storage.Backend)
	menuMode := playMode
	if !cmd.Flags().Changed("mode") && set.file.Game.Mode != nil {
		menuMode = *set.file.Game.Mode
	}

	cfg := model.Config{
		Mode:         menuMode,
		TimedSeconds: playSeconds,
		Bell:         playBell,
		Backend:      strings.ToLower(strings.TrimSpace(playBackend)),
		YAMLPath:     set.yamlPath(),
	}
	var startMode *game.Mode
	if cmd.Flags().Changed("mode") {
		mode, err := game.ParseMode(playMode)
		if err != nil {
			return fmt.Errorf("invalid --mode: %w", err)
		}
		startMode = &mode
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	level, err := set.logLevel()
	if err != nil {
		return err
	}
	logger, logCloser, err := logging.File(set.env.LogFileOrDefault(), level)
	if err != nil {
		return err
	}
	defer closeQuietly(logCloser)

	st, err := store.Open(set.env.DBPathOrDefault())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("failed to close db")
		}
	}()
	scores, err := openScores(cfg, st)
	if err != nil {
		return err
	}

	ticker := clock.NewTicker(time.Second)
	defer ticker.Stop()

	logger.Info().Str("backend", cfg.Backend).Int("seconds", cfg.TimedSeconds).Msg("starting")
	m := tui.NewModel(tui.Options{
		Config:    cfg,
		Scores:    scores,
		History:   st,
		Ticker:    ticker,
		Haptics:   tui.NewBell(os.Stderr, cfg.Bell),
		Logger:    logger,
		StartMode: startMode,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openScores(cfg model.Config, st *store.Store) (scoreBackend, error) {
	switch cfg.Backend {
	case backendSQLite, "":
		return st, nil
	case backendYAML:
		return store.NewYAMLScores(cfg.YAMLPath), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use sqlite or yaml)", cfg.Backend)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the commented template unless a file exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show or reset high scores",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().BoolVar(&scoresReset, "reset", false, "clear stored high scores")
	cmd.Flags().StringVar(&scoresMode, "mode", "", "limit to one mode (timed or practice)")
	cmd.Flags().StringVar(&playBackend, "backend", defaultBackend, "high score storage (sqlite or yaml)")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	set, err := loadSettings()
	if err != nil {
		return err
	}
	logger, err := set.consoleLogger()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "backend", &playBackend, set.file.Storage.Backend)
	modes := game.Modes
	if scoresMode != "" {
		mode, err := game.ParseMode(scoresMode)
		if err != nil {
			return fmt.Errorf("invalid --mode: %w", err)
		}
		modes = []game.Mode{mode}
	}

	st, err := store.Open(set.env.DBPathOrDefault())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("failed to close db")
		}
	}()
	cfg := model.Config{Backend: strings.ToLower(strings.TrimSpace(playBackend)), YAMLPath: set.yamlPath()}
	scores, err := openScores(cfg, st)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if scoresReset {
		keys := make([]string, len(modes))
		for i, mode := range modes {
			keys[i] = mode.ScoreKey()
		}
		if err := scores.ResetScores(ctx, keys...); err != nil {
			return fmt.Errorf("failed to reset scores: %w", err)
		}
		logger.Info().Strs("keys", keys).Msg("high scores reset")
	}
	entries, err := listScores(ctx, scores, modes)
	if err != nil {
		return err
	}
	if err := stats.RenderScores(cmd.OutOrStdout(), entries); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func listScores(ctx context.Context, scores game.ScoreStore, modes []game.Mode) ([]model.ScoreEntry, error) {
	entries := make([]model.ScoreEntry, 0, len(modes))
	for _, mode := range modes {
		score, _, err := scores.Get(ctx, mode.ScoreKey())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s score: %w", mode, err)
		}
		entries = append(entries, model.ScoreEntry{Key: mode.String(), Score: score})
	}
	return entries, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyMode, "mode", "", "mode filter (timed or practice)")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig(historyMode, historySince, historyLast, historyCurveWindow)
	if err != nil {
		return err
	}
	set, err := loadSettings()
	if err != nil {
		return err
	}
	logger, err := set.consoleLogger()
	if err != nil {
		return err
	}

	st, err := store.Open(set.env.DBPathOrDefault())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("failed to close db")
		}
	}()

	out := cmd.OutOrStdout()
	if historyPlain || !isTerminal(out) {
		return printHistory(out, st, cfg, plainWidth())
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func historyConfig(mode, since string, last, window int) (model.HistoryConfig, error) {
	var cfg model.HistoryConfig
	if mode != "" {
		parsed, err := game.ParseMode(mode)
		if err != nil {
			return cfg, fmt.Errorf("invalid --mode: %w", err)
		}
		cfg.Mode = parsed.String()
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return cfg, fmt.Errorf("--curve-window must be >= 1")
	}
	cfg.Last = last
	cfg.CurveWindow = window
	return cfg, nil
}

func printHistory(w io.Writer, st *store.Store, cfg model.HistoryConfig, width int) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderCurve(w, report.Sessions, cfg.CurveWindow, width); err != nil {
		return err
	}
	return stats.RenderSessionTable(w, report.Sessions)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func plainWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return plainWidthBackup
	}
	return width
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pirecall configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# mode = "timed"            # Mode preselected in the menu (timed or practice)
# timed-seconds = %d        # Countdown length for timed sessions
# bell = true               # Ring the terminal bell on a wrong digit

[storage]
# backend = %q          # High score storage (sqlite or yaml)
# yaml-path = %q

[log]
# level = "info"            # debug, info, warn, error
`,
		game.DefaultTimedSeconds,
		defaultBackend,
		config.DefaultYAMLScoresPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.TimedSeconds <= 0 {
		return fmt.Errorf("--seconds must be > 0")
	}
	if cfg.Mode != "" {
		if _, err := game.ParseMode(cfg.Mode); err != nil {
			return fmt.Errorf("invalid game.mode: %w", err)
		}
	}
	switch cfg.Backend {
	case backendSQLite, backendYAML:
	default:
		return fmt.Errorf("--backend must be sqlite or yaml, got %q", cfg.Backend)
	}
	return nil
}

func closeQuietly(c io.Closer) {
	if c == nil {
		return
	}
	_ = c.Close()
}
