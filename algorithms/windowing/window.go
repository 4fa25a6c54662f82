package windowing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Type names a window shape
type Type string

const (
	Rectangular Type = "rectangular"
	Hann        Type = "hann"
	Hamming     Type = "hamming"
)

// Coefficients returns the periodic window of length n.
// Periodic (denominator n) suits frames that feed an FFT.
func Coefficients(t Type, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("window size must be positive: %d", n)
	}

	coefficients := make([]float64, n)
	switch t {
	case Rectangular, "":
		for i := range coefficients {
			coefficients[i] = 1.0
		}
	case Hann:
		for i := range n {
			coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/float64(n)))
		}
	case Hamming:
		for i := range n {
			coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n))
		}
	default:
		return nil, fmt.Errorf("unknown window type %q", t)
	}

	return coefficients, nil
}

// Apply returns frame multiplied by coefficients; the lengths must match
func Apply(frame, coefficients []float64) []float64 {
	if len(frame) != len(coefficients) {
		return nil
	}
	windowed := make([]float64, len(frame))
	floats.MulTo(windowed, frame, coefficients)
	return windowed
}
