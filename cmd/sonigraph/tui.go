package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	sonigraph "github.com/sonigraph/sonigraph-go"
	"github.com/sonigraph/sonigraph-go/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <vault.json>",
	Short: "Play with an interactive terminal transport",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, opts, err := loadSession(args[0])
		if err != nil {
			return err
		}
		player, err := sonigraph.NewPlayer(nodes, playSampleRate, opts...)
		if err != nil {
			return err
		}
		defer player.Close()
		if err := player.Play(); err != nil {
			return err
		}

		program := tea.NewProgram(tui.New(player.Animator()))
		_, err = program.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
