package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reductions shared by the estimators. All of them are deterministic for a
// given input and break ties in favour of the lowest index.

// MeanAbs returns the mean absolute amplitude of data
func MeanAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Norm(data, 1) / float64(len(data))
}

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// ArgMax returns the index of the largest value, the first one on ties.
// It returns -1 for an empty slice.
func ArgMax(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(data)
}

// LaggedDot returns sum(data[i] * data[i+lag]) over every valid i
func LaggedDot(data []float64, lag int) float64 {
	if lag < 0 || lag >= len(data) {
		return 0.0
	}
	return floats.Dot(data[:len(data)-lag], data[lag:])
}

// RoundTo rounds value to the given number of decimal places
func RoundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

// IsFinite reports whether value is neither NaN nor infinite
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
