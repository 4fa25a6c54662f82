package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/RyanBlaney/sonido-sketch/algorithms/chroma"
	"github.com/RyanBlaney/sonido-sketch/algorithms/common"
	"github.com/RyanBlaney/sonido-sketch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sketch/algorithms/temporal"
	"github.com/RyanBlaney/sonido-sketch/algorithms/tonal"
	"github.com/RyanBlaney/sonido-sketch/logging"
)

// Input is one decoded clip handed to the analyzer
type Input struct {
	FileName string
	Signal   common.Signal
	// Duration in seconds as reported by the decoder. When zero it is derived
	// from the signal length.
	Duration float64
}

// Analyzer runs the tempo, key, chord and melody estimators over a signal
type Analyzer struct {
	config *Config

	tempo  *temporal.TempoEstimation
	chroma *chroma.Accumulator
	key    *tonal.KeyEstimator
	chords *tonal.ChordSketcher
	melody *tonal.MelodyExtractor

	logger logging.Logger
}

// NewAnalyzer creates an analyzer. A nil config uses DefaultConfig.
func NewAnalyzer(config *Config) (*Analyzer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis config: %w", err)
	}

	detector := spectral.NewDetector(config.Detector, config.DominantFreq)

	return &Analyzer{
		config: config,
		tempo:  temporal.NewTempoEstimationWithParams(config.Tempo),
		chroma: chroma.NewAccumulatorWithParams(config.Chroma, detector),
		key:    tonal.NewKeyEstimator(),
		chords: tonal.NewChordSketcher(),
		melody: tonal.NewMelodyExtractorWithParams(config.Melody, detector),
		logger: logging.WithFields(logging.Fields{
			"component": "sketch_analyzer",
		}),
	}, nil
}

// Config returns the analyzer configuration
func (a *Analyzer) Config() *Config {
	return a.config
}

// BarCount returns max(MinBars, round(duration / SecondsPerBar))
func (a *Analyzer) BarCount(duration float64) int {
	bars := int(math.Round(duration / a.config.SecondsPerBar))
	return max(a.config.MinBars, bars)
}

// Analyze estimates tempo, key, chords and melody for in. The only error
// cases are a cancelled context and a signal that fails Validate.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.Signal.Validate(); err != nil {
		return nil, fmt.Errorf("cannot analyze %q: %w", in.FileName, err)
	}

	duration := in.Duration
	if duration <= 0 {
		duration = in.Signal.Duration()
	}

	logger := a.logger.WithContext(ctx).WithFields(logging.Fields{
		"function":    "Analyze",
		"file_name":   in.FileName,
		"sample_rate": in.Signal.SampleRate,
		"samples":     in.Signal.Len(),
		"duration":    duration,
		"parallel":    a.config.Parallel,
	})
	logger.Debug("Starting sketch analysis")

	startTime := time.Now()
	samples, sampleRate := in.Signal.Samples, in.Signal.SampleRate
	bars := a.BarCount(duration)

	var (
		bpm    int
		key    tonal.KeyEstimate
		chords []string
		melody []string
	)

	tempoTask := func() { bpm = a.tempo.EstimateBPM(samples, sampleRate) }
	harmonyTask := func() {
		cv := a.chroma.Accumulate(samples, sampleRate)
		key = a.key.EstimateKey(cv)
		chords = a.chords.Sketch(key, bars)
	}
	melodyTask := func() {
		melody = a.melody.ExtractMelody(samples, sampleRate, a.config.MaxMelodyNotes)
	}

	if a.config.Parallel {
		var wg conc.WaitGroup
		wg.Go(tempoTask)
		wg.Go(harmonyTask)
		wg.Go(melodyTask)
		wg.Wait()
	} else {
		tempoTask()
		harmonyTask()
		melodyTask()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		FileName:    in.FileName,
		DurationSec: common.RoundTo(duration, a.config.DurationDecimals),
		BPM:         bpm,
		Key:         key.String(),
		Chords:      chords,
		Melody:      melody,
		Note:        Disclaimer,
	}

	logger.Info("Sketch analysis completed", logging.Fields{
		"bpm":          result.BPM,
		"key":          result.Key,
		"bars":         len(result.Chords),
		"melody_notes": len(result.Melody),
		"elapsed_ms":   time.Since(startTime).Milliseconds(),
	})

	return result, nil
}
