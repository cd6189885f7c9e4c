package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsync/internal/tasks"
	"github.com/desertthunder/plsync/internal/ui"
)

const tuiLogPath = "./tmp/plsync-tui.log"

// runTUI runs a sync inside the interactive terminal UI and reports its outcome once the UI exits.
func (r *Runner) runTUI(ctx context.Context, engine *tasks.Engine, opts tasks.SyncOpts) error {
	model := ui.NewModel(ctx, engine, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	_, err := model.Result()
	return err
}
