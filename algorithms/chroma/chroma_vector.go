package chroma

import (
	"gonum.org/v1/gonum/floats"
)

// ChromaVector is a 12-bin histogram of pitch-class detections, C through B.
// Bins only ever grow.
type ChromaVector [NumPitchClasses]float64

// Increment adds one detection to pitch class pc
func (cv *ChromaVector) Increment(pc int) {
	cv[PitchClass(pc)]++
}

// Values returns a copy of the bins as a slice
func (cv ChromaVector) Values() []float64 {
	out := make([]float64, NumPitchClasses)
	copy(out, cv[:])
	return out
}

// Total returns the number of detections accumulated
func (cv ChromaVector) Total() float64 {
	return floats.Sum(cv[:])
}

// IsEmpty reports whether no detection was accumulated
func (cv ChromaVector) IsEmpty() bool {
	return cv.Total() == 0
}

// Dominant returns the strongest pitch class, the lowest one on ties
func (cv ChromaVector) Dominant() int {
	return floats.MaxIdx(cv[:])
}

// Rotate returns the vector transposed up by k semitones:
// result[(i+k) mod 12] = cv[i]
func (cv ChromaVector) Rotate(k int) ChromaVector {
	var out ChromaVector
	for i, v := range cv {
		out[PitchClass(i+k)] = v
	}
	return out
}

// Normalized returns the bins scaled to sum to one. An empty vector is
// returned unchanged.
func (cv ChromaVector) Normalized() []float64 {
	out := cv.Values()
	total := floats.Sum(out)
	if total == 0 {
		return out
	}
	floats.Scale(1/total, out)
	return out
}
