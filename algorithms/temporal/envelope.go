package temporal

import (
	"github.com/RyanBlaney/sonido-sketch/algorithms/common"
)

// Envelope provides coarse amplitude envelope extraction
type Envelope struct {
	// No state needed - stateless calculation
}

// NewEnvelope creates a new envelope extractor
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// ComputeMeanAbs splits signal into non-overlapping blocks of hopSize samples
// and returns the mean absolute amplitude of each full block. A trailing
// partial block is dropped, so len(result) == len(signal) / hopSize.
func (e *Envelope) ComputeMeanAbs(signal []float64, hopSize int) []float64 {
	if hopSize <= 0 || len(signal) < hopSize {
		return []float64{}
	}

	numBlocks := len(signal) / hopSize
	envelope := make([]float64, numBlocks)

	for i := range numBlocks {
		start := i * hopSize
		envelope[i] = common.MeanAbs(signal[start : start+hopSize])
	}

	return envelope
}
