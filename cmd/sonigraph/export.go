package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sonigraph "github.com/sonigraph/sonigraph-go"
	"github.com/sonigraph/sonigraph-go/internal/midifile"
)

var (
	exportOut string
	exportBPM float64
)

var exportCmd = &cobra.Command{
	Use:   "export <vault.json>",
	Short: "Render the vault timeline to a Standard MIDI File",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, opts, err := loadSession(args[0])
		if err != nil {
			return err
		}
		notes, info, err := sonigraph.RenderNotes(nodes, opts...)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			return fmt.Errorf("nothing audible to export")
		}

		timed := make([]midifile.Timed, len(notes))
		for i, n := range notes {
			timed[i] = midifile.Timed{At: n.At, Note: n.Note}
		}
		if err := midifile.Write(exportOut, timed, exportBPM); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d notes over %.0fs (%d events) to %s\n",
			len(notes), info.Duration, info.EventCount, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "vault.mid", "output file")
	exportCmd.Flags().Float64Var(&exportBPM, "bpm", 120, "tempo written to the file")
	rootCmd.AddCommand(exportCmd)
}
