package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"coursemap/internal/progress"
	"coursemap/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive course-matching form",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	p := newPipeline(embedder, newCompleter(), newStore(), progress.Nop{})
	if err := ensureIndex(cmd.Context(), p); err != nil {
		return err
	}
	m := tui.New(p, cfg.Match.TopK)
	_, err = tea.NewProgram(m).Run()
	return err
}
