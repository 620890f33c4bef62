package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hqpham/studyflow/internal/scheduler"
	"github.com/hqpham/studyflow/internal/update"
)

// tuiCmd implements 'studyflow tui'; running the bare binary does the same.
func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
}

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ts, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	engine := scheduler.NewEngine(16)
	engine.Start()
	defer engine.Stop()

	m := update.NewModel(update.Deps{
		Store:     ts,
		Assistant: newOrchestrator(cfg),
		Scheduler: engine,
		Mood:      cfg.Mood,
	})
	defer m.Close()

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
