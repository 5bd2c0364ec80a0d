// Package config reads the sonification settings file. Every field is
// optional; omitted fields fall back to the engine defaults so a partial
// file stays valid.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sonigraph/sonigraph-go/internal/music"
	"github.com/sonigraph/sonigraph-go/internal/timeline"
)

type File struct {
	Timeline TimelineSection `yaml:"timeline"`
	Music    MusicSection    `yaml:"music"`

	// Instruments enabled for selection. Empty means the default set.
	Instruments []string `yaml:"instruments"`
}

type TimelineSection struct {
	Duration    float64 `yaml:"duration"`
	Window      string  `yaml:"timeWindow"`
	Granularity string  `yaml:"granularity"`
	CustomRange string  `yaml:"customRange"` // Go duration string, custom granularity only

	SpreadMode            string  `yaml:"eventSpreadingMode"`
	MaxSpacingWindow      float64 `yaml:"maxSpacingWindow"`
	MinEventSpacing       float64 `yaml:"minEventSpacing"`
	SimultaneousThreshold float64 `yaml:"simultaneousThreshold"`

	Loop  bool    `yaml:"loop"`
	Speed float64 `yaml:"speed"`
}

type MusicSection struct {
	Scale        string  `yaml:"scale"`
	Root         string  `yaml:"rootNote"`
	NoteDuration float64 `yaml:"noteDuration"`
	Density      float64 `yaml:"density"`
	PhraseLength int     `yaml:"phraseLength"`
	BaseVelocity float64 `yaml:"baseVelocity"`
}

// Load reads and validates a YAML settings file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if _, err := f.TimelineConfig(); err != nil {
		return nil, err
	}
	if _, err := f.MusicConfig(); err != nil {
		return nil, err
	}
	return &f, nil
}

// TimelineConfig merges the file over timeline defaults.
func (f *File) TimelineConfig() (timeline.Config, error) {
	cfg := timeline.DefaultConfig()
	s := f.Timeline
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.Window != "" {
		cfg.Window = timeline.Window(s.Window)
	}
	if s.Granularity != "" {
		cfg.Granularity = timeline.Granularity(s.Granularity)
	}
	if s.CustomRange != "" {
		d, err := time.ParseDuration(s.CustomRange)
		if err != nil {
			return timeline.Config{}, fmt.Errorf("config: customRange: %w", err)
		}
		cfg.CustomRange = d
	}
	if s.SpreadMode != "" {
		cfg.SpreadMode = timeline.SpreadMode(s.SpreadMode)
	}
	if s.MaxSpacingWindow != 0 {
		cfg.MaxSpacingWindow = s.MaxSpacingWindow
	}
	if s.MinEventSpacing != 0 {
		cfg.MinEventSpacing = s.MinEventSpacing
	}
	if s.SimultaneousThreshold != 0 {
		cfg.SimultaneousThreshold = s.SimultaneousThreshold
	}
	cfg.Loop = s.Loop
	if s.Speed != 0 {
		cfg.Speed = s.Speed
	}
	if err := cfg.Validate(); err != nil {
		return timeline.Config{}, err
	}
	return cfg, nil
}

// MusicConfig merges the file over music defaults.
func (f *File) MusicConfig() (music.Config, error) {
	cfg := music.DefaultConfig()
	s := f.Music
	if s.Scale != "" {
		cfg.Scale = s.Scale
	}
	if s.Root != "" {
		cfg.Root = s.Root
	}
	if s.NoteDuration != 0 {
		cfg.NoteDuration = s.NoteDuration
	}
	if s.Density != 0 {
		cfg.Density = s.Density
	}
	if s.PhraseLength != 0 {
		cfg.PhraseLength = s.PhraseLength
	}
	if s.BaseVelocity != 0 {
		cfg.BaseVelocity = s.BaseVelocity
	}
	if _, err := music.NewQuantizer(cfg.Scale, cfg.Root); err != nil {
		return music.Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.Density <= 0 || cfg.Density > 100 {
		return music.Config{}, fmt.Errorf("config: density %.1f out of range (0,100]", cfg.Density)
	}
	if cfg.PhraseLength < 2 {
		return music.Config{}, fmt.Errorf("config: phraseLength %d too short", cfg.PhraseLength)
	}
	return cfg, nil
}
