package spectral

import (
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/sonido-sketch/algorithms/common"
	"github.com/RyanBlaney/sonido-sketch/algorithms/windowing"
)

// FFTDetector scans the same bin range as PartialDFT but takes magnitudes
// from a full-resolution FFT of the frame. It is slower on short clips and
// does not subsample, so results can differ from PartialDFT by a bin.
type FFTDetector struct {
	maxBins int
	window  windowing.Type

	mu     sync.Mutex
	tables map[int][]float64 // window coefficients by frame size
}

// NewFFTDetector creates an unwindowed FFT detector scanning bins below maxBins
func NewFFTDetector(maxBins int) *FFTDetector {
	return NewWindowedFFTDetector(maxBins, windowing.Rectangular)
}

// NewWindowedFFTDetector tapers each frame with window before the FFT
func NewWindowedFFTDetector(maxBins int, window windowing.Type) *FFTDetector {
	if maxBins <= 0 {
		maxBins = DefaultDominantFrequencyParams().MaxBins
	}
	if window == "" {
		window = windowing.Rectangular
	}
	return &FFTDetector{
		maxBins: maxBins,
		window:  window,
		tables:  make(map[int][]float64),
	}
}

// Window returns the taper applied before the FFT
func (f *FFTDetector) Window() windowing.Type {
	return f.window
}

// DominantFrequency returns bin * sampleRate / N for the strongest bin
func (f *FFTDetector) DominantFrequency(frame []float64, sampleRate int) float64 {
	n := len(frame)
	if n == 0 {
		return 0.0
	}

	maxK := min(f.maxBins, n/2)
	if maxK <= 1 {
		return BinToFrequency(1, sampleRate, n)
	}

	if f.window != windowing.Rectangular {
		if coefficients := f.coefficients(n); coefficients != nil {
			frame = windowing.Apply(frame, coefficients)
		}
	}

	spectrum := Compute(frame)
	mags := make([]float64, maxK-1)
	for k := 1; k < maxK; k++ {
		abs := cmplx.Abs(spectrum[k])
		mags[k-1] = abs * abs
	}

	bestK := 1
	if best := common.ArgMax(mags); best >= 0 && mags[best] > 0 {
		bestK = best + 1
	}

	return BinToFrequency(bestK, sampleRate, n)
}

func (f *FFTDetector) coefficients(n int) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if table, ok := f.tables[n]; ok {
		return table
	}
	table, err := windowing.Coefficients(f.window, n)
	if err != nil {
		return nil
	}
	f.tables[n] = table
	return table
}

// Compute computes the FFT of a real frame using mjibson/go-dsp.
// go-dsp handles non-power-of-2 sizes.
func Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// Detector names accepted by NewDetector
const (
	DetectorPartialDFT = "partial_dft"
	DetectorFFT        = "fft"
	DetectorFFTHann    = "fft_hann"
	DetectorFFTHamming = "fft_hamming"
)

// DetectorNames lists every name NewDetector recognises
var DetectorNames = []string{DetectorPartialDFT, DetectorFFT, DetectorFFTHann, DetectorFFTHamming}

// NewDetector returns the detector registered under name.
// Unknown names fall back to the partial DFT.
func NewDetector(name string, params DominantFrequencyParams) FrequencyDetector {
	switch name {
	case DetectorFFT:
		return NewFFTDetector(params.MaxBins)
	case DetectorFFTHann:
		return NewWindowedFFTDetector(params.MaxBins, windowing.Hann)
	case DetectorFFTHamming:
		return NewWindowedFFTDetector(params.MaxBins, windowing.Hamming)
	default:
		return NewPartialDFTWithParams(params)
	}
}
