package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sonigraph "github.com/sonigraph/sonigraph-go"
)

var infoCmd = &cobra.Command{
	Use:   "info <vault.json>",
	Short: "Show the timeline a vault would produce, without playing it",
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

		fmt.Printf("nodes:     %d\n", len(nodes))
		fmt.Printf("range:     %s .. %s\n",
			info.StartDate.Format("2006-01-02 15:04"),
			info.EndDate.Format("2006-01-02 15:04"))
		fmt.Printf("duration:  %.0fs\n", info.Duration)
		fmt.Printf("events:    %d\n", info.EventCount)
		fmt.Printf("buckets:   %d\n", info.Buckets)
		fmt.Printf("audible:   %d notes\n", len(notes))

		instruments := make(map[string]int)
		for _, n := range notes {
			instruments[n.Note.Instrument]++
		}
		for name, count := range instruments {
			fmt.Printf("  %-16s %d\n", name, count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
