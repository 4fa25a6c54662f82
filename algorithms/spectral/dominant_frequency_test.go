package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-sketch/algorithms/windowing"
)

func sine(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestPartialDFTSineWithinOneBin(t *testing.T) {
	const (
		sampleRate = 44100
		n          = 4096
	)
	binWidth := float64(sampleRate) / n
	detector := NewPartialDFT()

	for _, freq := range []float64{110, 220, 261.63, 440, 880, 1500} {
		got := detector.DominantFrequency(sine(freq, sampleRate, n), sampleRate)
		assert.InDelta(t, freq, got, binWidth, "sine at %.2f Hz", freq)
	}
}

func TestPartialDFTExactBin(t *testing.T) {
	const (
		sampleRate = 22050
		n          = 4096
	)
	freq := BinToFrequency(37, sampleRate, n)

	got := DominantFrequency(sine(freq, sampleRate, n), sampleRate)
	assert.Equal(t, freq, got)
}

func TestPartialDFTSilenceFallsToFirstBin(t *testing.T) {
	frame := make([]float64, 4096)

	got := NewPartialDFT().DominantFrequency(frame, 44100)
	assert.Equal(t, BinToFrequency(1, 44100, 4096), got)
}

func TestPartialDFTShortFrames(t *testing.T) {
	detector := NewPartialDFT()

	assert.Equal(t, 0.0, detector.DominantFrequency(nil, 44100))
	assert.Equal(t, BinToFrequency(1, 8000, 2), detector.DominantFrequency([]float64{1, -1}, 8000))
}

func TestPartialDFTDeterministic(t *testing.T) {
	frame := sine(523.25, 48000, 4096)
	for i := range frame {
		frame[i] += 0.1 * math.Sin(float64(i)*0.37)
	}

	a := NewPartialDFT().DominantFrequency(frame, 48000)
	b := NewPartialDFT().DominantFrequency(frame, 48000)
	assert.Equal(t, a, b)
}

func TestFFTDetectorAgreesOnPureTone(t *testing.T) {
	const (
		sampleRate = 44100
		n          = 4096
	)
	freq := BinToFrequency(41, sampleRate, n)
	frame := sine(freq, sampleRate, n)

	assert.Equal(t, freq, NewFFTDetector(300).DominantFrequency(frame, sampleRate))
	assert.Equal(t, freq, NewPartialDFT().DominantFrequency(frame, sampleRate))
}

func TestNewDetector(t *testing.T) {
	params := DefaultDominantFrequencyParams()

	assert.IsType(t, &FFTDetector{}, NewDetector(DetectorFFT, params))
	assert.IsType(t, &PartialDFT{}, NewDetector(DetectorPartialDFT, params))
	assert.IsType(t, &PartialDFT{}, NewDetector("unknown", params))

	hann, ok := NewDetector(DetectorFFTHann, params).(*FFTDetector)
	require.True(t, ok)
	assert.Equal(t, windowing.Hann, hann.Window())
}

func TestWindowedFFTDetectorOnPureTone(t *testing.T) {
	const sampleRate = 44100
	n := 4096
	freq := BinToFrequency(40, sampleRate, n)
	frame := make([]float64, n)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	for _, window := range []windowing.Type{windowing.Hann, windowing.Hamming} {
		detector := NewWindowedFFTDetector(300, window)
		assert.Equal(t, freq, detector.DominantFrequency(frame, sampleRate), string(window))
		// second call hits the cached table
		assert.Equal(t, freq, detector.DominantFrequency(frame, sampleRate), string(window))
	}

	silent := make([]float64, n)
	assert.Equal(t, BinToFrequency(1, sampleRate, n), NewWindowedFFTDetector(300, windowing.Hann).DominantFrequency(silent, sampleRate))
}
