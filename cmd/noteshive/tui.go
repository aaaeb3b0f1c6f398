package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/noteshive/noteshive/internal/app"
	"github.com/noteshive/noteshive/internal/keymap"
	domain "github.com/noteshive/noteshive/internal/notes"
	"github.com/noteshive/noteshive/internal/plugin"
	"github.com/noteshive/noteshive/internal/plugins/notes"
	"github.com/noteshive/noteshive/internal/plugins/signin"
	"github.com/noteshive/noteshive/internal/state"
	"github.com/noteshive/noteshive/internal/styles"
)

func newTUICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI()
		},
	}
}

func (c *cli) runTUI() error {
	// Persistent UI state is optional.
	_ = state.Init()
	styles.ApplyThemeWithOverrides(c.cfg.UI.Theme, c.cfg.UI.Colors)

	logger, closeLog := c.tuiLogger()
	defer closeLog()

	sessions := c.sessions()
	ctx := &plugin.Context{
		Config:   c.cfg,
		Logger:   logger,
		Keymap:   keymap.NewRegistry(c.cfg.Keymap.Overrides),
		Sessions: sessions,
		Anon:     c.anonWith(logger),
	}

	if sess, err := sessions.Load(); err == nil && sess.Valid(c.now()) {
		ctx.Session = sess
		ctx.Client = ctx.Anon.WithCredentials(sess)
		ctx.Store = domain.NewStore(ctx.Client, logger)
		ctx.Epoch = 1
	}

	model, err := app.New(ctx, signin.New(), notes.New())
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// tuiLogger writes to the configured log file so the alternate screen stays clean.
func (c *cli) tuiLogger() (*slog.Logger, func()) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(c.cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	if c.debug {
		level = slog.LevelDebug
	}

	path := c.cfg.Log.File
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }
}
