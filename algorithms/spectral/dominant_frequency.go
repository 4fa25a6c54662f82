package spectral

import (
	"math"
	"sync"

	"github.com/RyanBlaney/sonido-sketch/algorithms/common"
)

// FrequencyDetector returns the single most energetic frequency of a frame
type FrequencyDetector interface {
	DominantFrequency(frame []float64, sampleRate int) float64
}

// DominantFrequencyParams bounds the cost of the partial DFT scan
type DominantFrequencyParams struct {
	MaxBins int `json:"max_bins" mapstructure:"max_bins"` // Bins scanned are 1..min(MaxBins, N/2)-1
	Stride  int `json:"stride" mapstructure:"stride"`     // Time-domain subsampling step
}

// DefaultDominantFrequencyParams returns the stock scan limits
func DefaultDominantFrequencyParams() DominantFrequencyParams {
	return DominantFrequencyParams{
		MaxBins: 300,
		Stride:  4,
	}
}

// PartialDFT finds the dominant frequency by evaluating a bounded set of DFT
// bins on a subsampled frame.
//
// A silent frame yields bin 1 because the best magnitude starts at zero and
// only a strictly larger magnitude replaces it.
type PartialDFT struct {
	params DominantFrequencyParams

	mu     sync.Mutex
	tables map[int]*twiddles
}

// twiddles caches cos/sin of 2*pi*m/N for one frame length
type twiddles struct {
	cos []float64
	sin []float64
}

// NewPartialDFT creates a detector with default parameters
func NewPartialDFT() *PartialDFT {
	return NewPartialDFTWithParams(DefaultDominantFrequencyParams())
}

// NewPartialDFTWithParams creates a detector with custom parameters
func NewPartialDFTWithParams(params DominantFrequencyParams) *PartialDFT {
	if params.MaxBins <= 0 {
		params.MaxBins = 300
	}
	if params.Stride <= 0 {
		params.Stride = 1
	}
	return &PartialDFT{
		params: params,
		tables: make(map[int]*twiddles),
	}
}

// DominantFrequency returns bin * sampleRate / N for the strongest bin
func (p *PartialDFT) DominantFrequency(frame []float64, sampleRate int) float64 {
	n := len(frame)
	if n == 0 {
		return 0.0
	}

	maxK := min(p.params.MaxBins, n/2)
	if maxK <= 1 {
		return BinToFrequency(1, sampleRate, n)
	}

	tw := p.twiddlesFor(n)
	mags := make([]float64, maxK-1)

	for k := 1; k < maxK; k++ {
		re, im := 0.0, 0.0
		for i := 0; i < n; i += p.params.Stride {
			idx := (k * i) % n
			re += frame[i] * tw.cos[idx]
			im -= frame[i] * tw.sin[idx]
		}
		mags[k-1] = re*re + im*im
	}

	bestK := 1
	if best := common.ArgMax(mags); best >= 0 && mags[best] > 0 {
		bestK = best + 1
	}

	return BinToFrequency(bestK, sampleRate, n)
}

// Params returns the detector parameters
func (p *PartialDFT) Params() DominantFrequencyParams {
	return p.params
}

func (p *PartialDFT) twiddlesFor(n int) *twiddles {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tw, ok := p.tables[n]; ok {
		return tw
	}

	tw := &twiddles{
		cos: make([]float64, n),
		sin: make([]float64, n),
	}
	for m := range n {
		angle := 2 * math.Pi * float64(m) / float64(n)
		tw.cos[m] = math.Cos(angle)
		tw.sin[m] = math.Sin(angle)
	}
	p.tables[n] = tw

	return tw
}

// BinToFrequency converts a DFT bin index into Hz
func BinToFrequency(bin, sampleRate, frameSize int) float64 {
	if frameSize <= 0 {
		return 0.0
	}
	return float64(bin) * float64(sampleRate) / float64(frameSize)
}

var defaultDetector = NewPartialDFT()

// DominantFrequency runs the default partial DFT detector on frame
func DominantFrequency(frame []float64, sampleRate int) float64 {
	return defaultDetector.DominantFrequency(frame, sampleRate)
}
