package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/focusflow/internal/config"
	"github.com/sandeepkv93/focusflow/internal/engine"
	"github.com/sandeepkv93/focusflow/internal/rephrase"
	"github.com/sandeepkv93/focusflow/internal/storage"
	"github.com/sandeepkv93/focusflow/internal/update"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	statePath  string
	store      string
	rephraser  string
	logFile    string
}

// app bundles everything one command invocation needs.
type app struct {
	cfg    config.RuntimeConfig
	store  storage.Store
	engine *engine.Engine
	logger *slog.Logger
	close  func()
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "focusflow",
		Short:         "Energy-aware task suggestions with completion streaks",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultConfigPath(), "YAML config file")
	pf.StringVar(&flags.statePath, "state", "", "state file or database path")
	pf.StringVar(&flags.store, "store", "", "storage backend: file, sqlite, memory")
	pf.StringVar(&flags.rephraser, "rephraser", "", "rephrasing provider: gemini, passthrough")
	pf.StringVar(&flags.logFile, "log-file", "", "write structured logs to this file")

	root.AddCommand(
		newSuggestCmd(flags),
		newDoneCmd(flags),
		newSummaryCmd(flags),
		newHistoryCmd(flags),
		&cobra.Command{
			Use:   "tui",
			Short: "Run the interactive terminal UI",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTUI(cmd, flags)
			},
		},
	)
	return root
}

func newSuggestCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <energy>",
		Short: "Suggest a task for your energy level (low, medium, high)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.close()
			out, err := a.engine.Suggest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newDoneCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "done <task...>",
		Aliases: []string{"complete"},
		Short:   "Mark a task completed and update the streak",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.close()
			out, err := a.engine.MarkCompleted(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newSummaryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		Aliases: []string{"stats"},
		Short:   "Show completed vs suggested counts and the current streak",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.close()
			fmt.Fprintln(cmd.OutOrStdout(), a.engine.Summary())
			return nil
		},
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent saved revisions (sqlite store only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.close()
			sq, ok := a.store.(*storage.SQLiteStore)
			if !ok {
				return errors.New("history requires the sqlite store (--store sqlite)")
			}
			revs, err := sq.Revisions(cmd.Context(), storage.RevisionListFilter{Limit: limit})
			if err != nil {
				return err
			}
			for _, rev := range revs {
				state, err := storage.Decode(rev.Payload)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  completed=%d suggested=%d streak=%d\n",
					rev.SavedAt.Local().Format("2006-01-02 15:04:05"), rev.ID,
					len(state.Completed), len(state.Suggested), state.Streak)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of revisions to show")
	return cmd
}

func runTUI(cmd *cobra.Command, flags *rootFlags) error {
	a, err := openApp(cmd, flags)
	if err != nil {
		return err
	}
	defer a.close()

	program := tea.NewProgram(
		update.NewModel(a.engine, update.WithContext(cmd.Context()), update.WithLogger(a.logger)),
		tea.WithContext(cmd.Context()),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func loadConfig(flags *rootFlags) (config.RuntimeConfig, error) {
	cfg, err := config.Load(config.DefaultRuntimeConfig(), flags.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.statePath != "" {
		cfg.StatePath = flags.statePath
	}
	if flags.store != "" {
		cfg.Store = strings.ToLower(flags.store)
	}
	if flags.rephraser != "" {
		cfg.Rephraser = strings.ToLower(flags.rephraser)
	}
	if flags.logFile != "" {
		cfg.LogFile = flags.logFile
	}
	if cfg.Store == storage.BackendSQLite && cfg.StatePath == config.DefaultRuntimeConfig().StatePath {
		cfg.StatePath = storage.DefaultSQLiteDB
	}
	return cfg, nil
}

func openApp(cmd *cobra.Command, flags *rootFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Store, cfg.StatePath)
	if err != nil {
		closeLog()
		return nil, err
	}
	closeStore := func() {}
	if c, ok := store.(io.Closer); ok {
		closeStore = func() { _ = c.Close() }
	}

	rephraser, err := rephrase.New(cfg.Rephraser, rephrase.GeminiOptions{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.GeminiModel,
		Endpoint: cfg.GeminiEndpoint,
	})
	if err != nil {
		closeStore()
		closeLog()
		return nil, err
	}

	eng, err := engine.New(cmd.Context(), store, rephraser,
		engine.WithLogger(logger),
		engine.WithRephraseTimeout(cfg.RephraseTimeout),
		engine.WithLowEnergyThreshold(cfg.LowEnergyThreshold),
	)
	if err != nil {
		closeStore()
		closeLog()
		return nil, err
	}
	logger.Debug("focusflow ready", readyAttrs(cfg, store, rephraser)...)
	return &app{
		cfg:    cfg,
		store:  store,
		engine: eng,
		logger: logger,
		close: func() {
			closeStore()
			closeLog()
		},
	}, nil
}

func readyAttrs(cfg config.RuntimeConfig, store storage.Store, rephraser rephrase.Rephraser) []any {
	attrs := []any{"store", cfg.Store, "rephraser", cfg.Rephraser}
	if fs, ok := store.(*storage.FileStore); ok {
		attrs = append(attrs, "path", fs.Path())
	} else {
		attrs = append(attrs, "path", cfg.StatePath)
	}
	if g, ok := rephraser.(*rephrase.Gemini); ok {
		attrs = append(attrs, "model", g.Model())
	}
	return attrs
}

// newLogger writes text logs to cfg.LogFile, or discards them so the TUI
// owns the terminal.
func newLogger(cfg config.RuntimeConfig) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if strings.TrimSpace(cfg.LogFile) == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
