package analysis

import (
	"fmt"
	"slices"

	"github.com/RyanBlaney/sonido-sketch/algorithms/chroma"
	"github.com/RyanBlaney/sonido-sketch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sketch/algorithms/temporal"
	"github.com/RyanBlaney/sonido-sketch/algorithms/tonal"
)

// Config holds configuration for a sketch analysis run
type Config struct {
	// Detector selects the dominant-frequency detector ("partial_dft", "fft", "fft_hann", "fft_hamming")
	Detector         string                           `json:"detector" mapstructure:"detector"`
	DominantFreq     spectral.DominantFrequencyParams `json:"dominant_frequency" mapstructure:"dominant_frequency"`
	Tempo            temporal.TempoParams             `json:"tempo" mapstructure:"tempo"`
	Chroma           chroma.AccumulatorParams         `json:"chroma" mapstructure:"chroma"`
	Melody           tonal.MelodyParams               `json:"melody" mapstructure:"melody"`
	MaxMelodyNotes   int                              `json:"max_melody_notes" mapstructure:"max_melody_notes"`
	MinBars          int                              `json:"min_bars" mapstructure:"min_bars"`
	SecondsPerBar    float64                          `json:"seconds_per_bar" mapstructure:"seconds_per_bar"`
	DurationDecimals int                              `json:"duration_decimals" mapstructure:"duration_decimals"`

	// Parallel runs the independent estimators concurrently
	Parallel bool `json:"parallel" mapstructure:"parallel"`
}

// DefaultConfig returns the stock analysis configuration
func DefaultConfig() *Config {
	return &Config{
		Detector:         spectral.DetectorPartialDFT,
		DominantFreq:     spectral.DefaultDominantFrequencyParams(),
		Tempo:            temporal.DefaultTempoParams(),
		Chroma:           chroma.DefaultAccumulatorParams(),
		Melody:           tonal.DefaultMelodyParams(),
		MaxMelodyNotes:   16,
		MinBars:          4,
		SecondsPerBar:    8,
		DurationDecimals: 2,
		Parallel:         false,
	}
}

// Validate checks the configuration for values the estimators cannot use
func (c *Config) Validate() error {
	if !slices.Contains(spectral.DetectorNames, c.Detector) {
		return fmt.Errorf("unknown detector %q", c.Detector)
	}

	if c.DominantFreq.MaxBins <= 1 {
		return fmt.Errorf("dominant frequency max bins must be greater than 1: %d", c.DominantFreq.MaxBins)
	}
	if c.DominantFreq.Stride <= 0 {
		return fmt.Errorf("dominant frequency stride must be positive: %d", c.DominantFreq.Stride)
	}

	if c.Tempo.HopSize <= 0 {
		return fmt.Errorf("tempo hop size must be positive: %d", c.Tempo.HopSize)
	}
	if c.Tempo.MinBPM <= 0 || c.Tempo.MaxBPM <= c.Tempo.MinBPM {
		return fmt.Errorf("invalid tempo range [%.1f, %.1f]", c.Tempo.MinBPM, c.Tempo.MaxBPM)
	}
	if c.Tempo.FallbackBPM <= 0 {
		return fmt.Errorf("tempo fallback bpm must be positive: %d", c.Tempo.FallbackBPM)
	}

	if c.Chroma.WindowSize <= 0 || c.Chroma.HopSize <= 0 {
		return fmt.Errorf("chroma window and hop must be positive: %d/%d", c.Chroma.WindowSize, c.Chroma.HopSize)
	}
	if c.Melody.WindowSize <= 0 || c.Melody.HopSeconds <= 0 {
		return fmt.Errorf("melody window and hop must be positive: %d/%.3f", c.Melody.WindowSize, c.Melody.HopSeconds)
	}

	if c.MaxMelodyNotes <= 0 {
		return fmt.Errorf("max melody notes must be positive: %d", c.MaxMelodyNotes)
	}
	if c.SecondsPerBar <= 0 {
		return fmt.Errorf("seconds per bar must be positive: %.2f", c.SecondsPerBar)
	}

	return nil
}
