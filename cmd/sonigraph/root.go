package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	sonigraph "github.com/sonigraph/sonigraph-go"
	"github.com/sonigraph/sonigraph-go/internal/config"
	"github.com/sonigraph/sonigraph-go/internal/timeline"
	"github.com/sonigraph/sonigraph-go/internal/vault"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "sonigraph",
	Short: "Play a vault's history as music",
	Long: `sonigraph turns a timestamped vault export into a musical timeline:
each node's creation becomes a note, placed on a playback axis and
quantized to a scale.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "settings file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadSession reads the vault export and the optional settings file and
// turns them into animator options.
func loadSession(vaultPath string) ([]timeline.Node, []sonigraph.Option, error) {
	log := newLogger()

	settings := &config.File{}
	if configPath != "" {
		var err error
		settings, err = config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
	}
	tlCfg, err := settings.TimelineConfig()
	if err != nil {
		return nil, nil, err
	}
	musicCfg, err := settings.MusicConfig()
	if err != nil {
		return nil, nil, err
	}

	nodes, err := vault.Load(vaultPath)
	if err != nil {
		return nil, nil, err
	}
	if len(nodes) == 0 {
		return nil, nil, fmt.Errorf("%s contains no nodes", vaultPath)
	}
	log.Debug().Int("nodes", len(nodes)).Str("vault", vaultPath).Msg("vault loaded")

	opts := []sonigraph.Option{
		sonigraph.WithTimelineConfig(tlCfg),
		sonigraph.WithMusicConfig(musicCfg),
		sonigraph.WithLogger(log),
	}
	if len(settings.Instruments) > 0 {
		opts = append(opts, sonigraph.WithInstruments(settings.Instruments))
	}
	return nodes, opts, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
