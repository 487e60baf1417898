// Package main provides the CLI entrypoint for wordsprint.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordsprint/internal/config"
	"github.com/verte-zerg/wordsprint/internal/generator"
	"github.com/verte-zerg/wordsprint/internal/logging"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/session"
	"github.com/verte-zerg/wordsprint/internal/stats"
	"github.com/verte-zerg/wordsprint/internal/statsui"
	"github.com/verte-zerg/wordsprint/internal/store"
	"github.com/verte-zerg/wordsprint/internal/tui"
	"github.com/verte-zerg/wordsprint/internal/wordlist"
)

const (
	defaultLang         = "en"
	defaultWords        = 70
	defaultFormula      = "words"
	defaultCaps         = 0.0
	defaultPunct        = 0.0
	defaultMissedTop    = 10
	defaultMissedFactor = 2.0
	defaultMissedWindow = 20
	defaultCurveWindow  = 10
	defaultLogLevel     = "info"
)

const defaultPunctSet = ".,!?;:"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	practiceLang         string
	practiceWords        int
	practiceWordList     string
	practiceFormula      string
	practiceCaps         float64
	practicePunct        float64
	practicePunctSet     string
	practiceFocusMissed  bool
	practiceMissedTop    int
	practiceMissedFactor float64
	practiceMissedWindow int
	practiceSeed         int64

	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	logFile  string
	logLevel string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordsprint",
		Short:         "Timed word typing practice in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per session")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "path to a word list (one word per line)")
	rootCmd.Flags().StringVar(&practiceFormula, "formula", defaultFormula, "wpm formula: words or chars")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&practiceFocusMissed, "focus-missed", false, "bias practice toward recently missed words")
	rootCmd.Flags().IntVar(&practiceMissedTop, "missed-top", defaultMissedTop, "number of missed words to focus on")
	rootCmd.Flags().Float64Var(&practiceMissedFactor, "missed-factor", defaultMissedFactor, "extra weight for missed words")
	rootCmd.Flags().IntVar(&practiceMissedWindow, "missed-window", defaultMissedWindow, "number of recent sessions to find missed words")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed for word selection (0 = time based)")

	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path, or - for stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	applyStringConfig(cmd, "formula", &practiceFormula, fileCfg.Session.Formula)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyBoolConfig(cmd, "focus-missed", &practiceFocusMissed, fileCfg.Practice.FocusMissed)
	applyIntConfig(cmd, "missed-top", &practiceMissedTop, fileCfg.Practice.MissedTop)
	applyFloatConfig(cmd, "missed-factor", &practiceMissedFactor, fileCfg.Practice.MissedFactor)
	applyIntConfig(cmd, "missed-window", &practiceMissedWindow, fileCfg.Practice.MissedWindow)

	cfg := model.Config{
		Lang:         practiceLang,
		Words:        practiceWords,
		WordListPath: practiceWordList,
		Formula:      practiceFormula,
		CapsPct:      practiceCaps,
		PunctPct:     practicePunct,
		PunctSet:     practicePunctSet,
		FocusMissed:  practiceFocusMissed,
		MissedTop:    practiceMissedTop,
		MissedFactor: practiceMissedFactor,
		MissedWindow: practiceMissedWindow,
		Seed:         practiceSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeQuietly(closeLog)

	words, label, err := wordlist.Resolve(cfg.Lang, cfg.WordListPath, config.DefaultWordListDir())
	if err != nil {
		return wordListLoadError(cfg.Lang, label, err)
	}
	logger.Info("word list loaded", "source", label, "words", len(words))

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()

	missed := map[string]struct{}{}
	if cfg.FocusMissed {
		aggs, err := st.GetMissedWords(context.Background(), cfg.MissedWindow, cfg.Lang)
		if err != nil {
			logger.Error("failed to load missed words", "err", err)
		} else {
			missed = stats.SelectMissedWords(aggs, cfg.MissedTop)
			if len(missed) == 0 {
				logErrln("no missed words recorded yet; using uniform word selection")
			}
		}
	}

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewWithSeed(cfg.Seed)
	}
	m := tui.NewModel(cfg, st, gen, words, label, missed, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if !strings.HasPrefix(label, wordlist.EmbeddedPrefix) {
		stop, err := wordlist.Watch(cmd.Context(), label, func() {
			words, _, err := wordlist.Resolve(cfg.Lang, label, "")
			program.Send(tui.WordListMsg{Words: words, Label: label, Err: err})
		})
		if err != nil {
			logger.Warn("word list changes will not be picked up", "source", label, "err", err)
		} else {
			defer closeQuietly(stop)
		}
	}
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
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
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
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

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := wordlist.Languages(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	return writeLines(cmd.OutOrStdout(), langs)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig(statsLang, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, closeLog, err := newLogger(cmd, fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeQuietly(closeLog)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return report.Render(cmd.OutOrStdout(), cfg.CurveWindow, 0)
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "wordsprint "+version)
			return err
		},
	}
}

func buildStatsConfig(lang, since string, last, window int) (model.StatsConfig, error) {
	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if window <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return model.StatsConfig{
		Lang:        lang,
		Since:       sinceTime,
		Last:        last,
		CurveWindow: window,
	}, nil
}

// newLogger builds the logger from the [log] table, with --log-file and
// --log-level taking precedence.
func newLogger(cmd *cobra.Command, fileCfg config.LogConfig) (*slog.Logger, func() error, error) {
	path := config.DefaultLogPath()
	level := logLevel
	format := ""
	if fileCfg.File != nil {
		path = *fileCfg.File
	}
	if fileCfg.Format != nil {
		format = *fileCfg.Format
	}
	if fileCfg.Level != nil && !cmd.Flags().Changed("log-level") {
		level = *fileCfg.Level
	}
	if cmd.Flags().Changed("log-file") {
		path = logFile
	}
	logger, closeFn, err := logging.New(logging.Options{Level: level, Format: format, Path: path})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, closeFn, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordsprint configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q               # Language code
# words = %d              # Words per session
# wordlist = ""           # Path to a word list, one word per line
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q      # Punctuation set
# focus-missed = false    # Bias practice toward recently missed words
# missed-top = %d         # Number of missed words to focus on
# missed-factor = %.1f    # Extra weight for missed words
# missed-window = %d      # Number of recent sessions to find missed words

[session]
# wpm-formula = %q    # words: correct words per minute, chars: (chars / 5) per minute

[log]
# level = %q          # debug, info, warn, error
# format = "text"         # text or json
# file = %q
`,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultMissedTop,
		defaultMissedFactor,
		defaultMissedWindow,
		defaultFormula,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if _, err := session.ParseFormula(cfg.Formula); err != nil {
		return fmt.Errorf("--formula: %w", err)
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.MissedTop < 0 {
		return fmt.Errorf("--missed-top must be >= 0")
	}
	if cfg.MissedFactor < 0 {
		return fmt.Errorf("--missed-factor must be >= 0")
	}
	if cfg.MissedWindow < 0 {
		return fmt.Errorf("--missed-window must be >= 0")
	}
	return nil
}

func wordListLoadError(lang, source string, err error) error {
	var hints []string
	switch {
	case errors.Is(err, wordlist.ErrUnknownLanguage):
		hints = []string{
			fmt.Sprintf("no word list for language %q", lang),
			"Run: wordsprint langs",
			fmt.Sprintf("Or put a list at: %s", filepath.Join(config.DefaultWordListDir(), lang+".txt")),
		}
	case errors.Is(err, wordlist.ErrEmpty):
		hints = []string{"the word list has no usable words for this language"}
	}
	if len(hints) == 0 {
		return fmt.Errorf("failed to load word list %s: %w", source, err)
	}
	return fmt.Errorf("failed to load word list %s: %w\n%s", source, err, strings.Join(hints, "\n"))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func closeQuietly(closeFn func() error) {
	if err := closeFn(); err != nil {
		logErrln("failed to close:", err)
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
