package chroma

import (
	"github.com/RyanBlaney/sonido-sketch/algorithms/common"
	"github.com/RyanBlaney/sonido-sketch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sketch/logging"
)

// AccumulatorParams controls the sliding window and accepted pitch band
type AccumulatorParams struct {
	WindowSize int     `json:"window_size" mapstructure:"window_size"`
	HopSize    int     `json:"hop_size" mapstructure:"hop_size"`
	MinFreq    float64 `json:"min_freq" mapstructure:"min_freq"` // Rejects sub-bass rumble
	MaxFreq    float64 `json:"max_freq" mapstructure:"max_freq"` // Rejects detector noise above pitched range
}

// DefaultAccumulatorParams returns 4096-sample windows at 50% overlap, 50-2000 Hz
func DefaultAccumulatorParams() AccumulatorParams {
	return AccumulatorParams{
		WindowSize: 4096,
		HopSize:    2048,
		MinFreq:    50,
		MaxFreq:    2000,
	}
}

// Accumulator builds a chroma histogram from one dominant frequency per window
type Accumulator struct {
	params   AccumulatorParams
	detector spectral.FrequencyDetector
}

// NewAccumulator creates an accumulator with default parameters
func NewAccumulator(detector spectral.FrequencyDetector) *Accumulator {
	return NewAccumulatorWithParams(DefaultAccumulatorParams(), detector)
}

// NewAccumulatorWithParams creates an accumulator with custom parameters
func NewAccumulatorWithParams(params AccumulatorParams, detector spectral.FrequencyDetector) *Accumulator {
	if detector == nil {
		detector = spectral.NewPartialDFT()
	}
	return &Accumulator{
		params:   params,
		detector: detector,
	}
}

// Accumulate slides the window across signal and counts the pitch class of
// every in-band dominant frequency. All bins stay zero when no window yields
// an accepted frequency.
func (a *Accumulator) Accumulate(signal []float64, sampleRate int) ChromaVector {
	var cv ChromaVector
	win, hop := a.params.WindowSize, a.params.HopSize

	frames := common.FrameCount(len(signal), win, hop)
	accepted := 0

	for f := range frames {
		start := f * hop
		freq := a.detector.DominantFrequency(signal[start:start+win], sampleRate)
		if freq < a.params.MinFreq || freq > a.params.MaxFreq {
			continue
		}
		cv.Increment(FrequencyToNearestMIDI(freq))
		accepted++
	}

	logging.Debug("Chroma accumulated", logging.Fields{
		"component": "chroma_accumulator",
		"frames":    frames,
		"accepted":  accepted,
	})

	return cv
}

// Params returns the accumulator parameters
func (a *Accumulator) Params() AccumulatorParams {
	return a.params
}
