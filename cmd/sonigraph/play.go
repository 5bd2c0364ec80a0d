package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sonigraph "github.com/sonigraph/sonigraph-go"
)

const playSampleRate = 48000

var playCmd = &cobra.Command{
	Use:   "play <vault.json>",
	Short: "Play the vault timeline through the audio device",
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

		info := player.Animator().TimelineInfo()
		fmt.Fprintf(os.Stderr, "%d nodes, %.0fs (%s .. %s)\n",
			info.EventCount, info.Duration,
			info.StartDate.Format("2006-01-02"),
			info.EndDate.Format("2006-01-02"))

		if err := player.Play(); err != nil {
			return err
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		for {
			select {
			case <-sig:
				return nil
			case <-time.After(100 * time.Millisecond):
				if player.Finished() {
					return nil
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
