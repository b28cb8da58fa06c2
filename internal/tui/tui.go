// Package tui is the interactive idea list. Edits show up immediately and
// are saved in the background; see package board for how they reconcile.
package tui

import (
	"context"
	"fmt"
	"time"

	"ideabox/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	// Author prefills the author field of new ideas and comments.
	Author string
	// Workers bounds concurrent backend operations.
	Workers int
	// Timeout bounds each backend operation (0 = none).
	Timeout time.Duration
	// Glyphs is "unicode" or "ascii".
	Glyphs string
	// StatePath is where the filter and cursor are kept between sessions;
	// empty disables it.
	StatePath string
	Logger    *zap.Logger
}

func Run(ctx context.Context, st store.Store, opt Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opt.Glyphs)

	records, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ideas: %w", err)
	}
	m := newAppModel(ctx, st, records, modelOptions{
		Author:  opt.Author,
		Workers: opt.Workers,
		Timeout: opt.Timeout,
		Logger:  opt.Logger,
	})
	if st, err := store.LoadTUIState(opt.StatePath); err != nil {
		m.log.Warn("tui state not loaded", zap.String("path", opt.StatePath), zap.Error(err))
	} else {
		m.restoreState(st)
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	fm, ok := final.(appModel)
	if !ok {
		return nil
	}
	if err := store.SaveTUIState(opt.StatePath, fm.state()); err != nil {
		m.log.Warn("tui state not saved", zap.String("path", opt.StatePath), zap.Error(err))
	}
	if n := fm.q.FailedCount(); n > 0 {
		return fmt.Errorf("%d change(s) could not be saved", n)
	}
	return nil
}
