package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-sketch/algorithms/common"
	"github.com/RyanBlaney/sonido-sketch/logging"
)

// TempoParams contains parameters for envelope autocorrelation tempo estimation
type TempoParams struct {
	HopSize     int     `json:"hop_size" mapstructure:"hop_size"`         // Envelope block size in samples
	MinBPM      float64 `json:"min_bpm" mapstructure:"min_bpm"`           // Slowest tempo searched
	MaxBPM      float64 `json:"max_bpm" mapstructure:"max_bpm"`           // Fastest tempo searched
	FallbackBPM int     `json:"fallback_bpm" mapstructure:"fallback_bpm"` // Returned when no finite tempo is found
}

// DefaultTempoParams returns the stock search range of 70-180 BPM
func DefaultTempoParams() TempoParams {
	return TempoParams{
		HopSize:     1024,
		MinBPM:      70,
		MaxBPM:      180,
		FallbackBPM: 120,
	}
}

// TempoEstimation finds the envelope lag with the strongest self-similarity
// and maps it to beats per minute
type TempoEstimation struct {
	params            TempoParams
	envelopeExtractor *Envelope
}

// NewTempoEstimation creates a new tempo estimator
func NewTempoEstimation() *TempoEstimation {
	return NewTempoEstimationWithParams(DefaultTempoParams())
}

// NewTempoEstimationWithParams creates a tempo estimator with custom parameters
func NewTempoEstimationWithParams(params TempoParams) *TempoEstimation {
	return &TempoEstimation{
		params:            params,
		envelopeExtractor: NewEnvelope(),
	}
}

// LagRange returns the inclusive envelope lag range searched for sampleRate
func (te *TempoEstimation) LagRange(sampleRate int) (minLag, maxLag int) {
	blocksPerSecond := float64(sampleRate) / float64(te.params.HopSize)
	minLag = int(math.Floor(60.0 / te.params.MaxBPM * blocksPerSecond))
	maxLag = int(math.Floor(60.0 / te.params.MinBPM * blocksPerSecond))
	return minLag, maxLag
}

// EstimateBPM estimates tempo in whole beats per minute.
//
// Each lag in LagRange is scored by the unnormalized autocorrelation of the
// envelope. The first lag with the highest strictly positive score wins.
// When no lag qualifies, or the winning lag maps to a non-finite tempo,
// FallbackBPM is returned.
func (te *TempoEstimation) EstimateBPM(signal []float64, sampleRate int) int {
	envelope := te.envelopeExtractor.ComputeMeanAbs(signal, te.params.HopSize)
	minLag, maxLag := te.LagRange(sampleRate)

	bestLag := 0
	bestScore := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		score := common.LaggedDot(envelope, lag)
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	bpm := math.Round(60.0 / (float64(bestLag) * float64(te.params.HopSize) / float64(sampleRate)))
	if !common.IsFinite(bpm) {
		logging.Debug("Tempo estimate not finite, using fallback", logging.Fields{
			"component":      "tempo_estimation",
			"envelope_len":   len(envelope),
			"envelope_mean":  common.Mean(envelope),
			"min_lag":        minLag,
			"max_lag":        maxLag,
			"fallback_tempo": te.params.FallbackBPM,
		})
		return te.params.FallbackBPM
	}

	return int(bpm)
}

// Params returns the estimator parameters
func (te *TempoEstimation) Params() TempoParams {
	return te.params
}
