package common

import (
	"errors"
	"fmt"
)

// Precondition failures. Estimators never return these; callers validate a
// Signal once before handing it to the pipeline.
var (
	ErrEmptySignal       = errors.New("signal has no samples")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// Signal is a single channel of PCM samples in [-1, 1] at a fixed sample rate.
// It is borrowed read-only by every estimator.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// NewSignal wraps samples without copying them
func NewSignal(samples []float64, sampleRate int) Signal {
	return Signal{Samples: samples, SampleRate: sampleRate}
}

// Validate reports whether the signal satisfies the pipeline preconditions
func (s Signal) Validate() error {
	if len(s.Samples) == 0 {
		return ErrEmptySignal
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSampleRate, s.SampleRate)
	}
	return nil
}

// Len returns the number of samples
func (s Signal) Len() int {
	return len(s.Samples)
}

// Duration returns the signal length in seconds
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Frame returns a view of size samples starting at start. The view shares
// memory with the signal and must not be written to.
func (s Signal) Frame(start, size int) []float64 {
	return s.Samples[start : start+size]
}

// FrameCount returns how many windows fit when stepping by hopSize and
// requiring start+windowSize to stay strictly below length.
func FrameCount(length, windowSize, hopSize int) int {
	if hopSize <= 0 || length <= windowSize {
		return 0
	}
	return (length-windowSize-1)/hopSize + 1
}
