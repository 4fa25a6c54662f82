package tonal

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-sketch/algorithms/chroma"
)

// KeyMode represents major or minor mode
type KeyMode int

const (
	KeyModeMajor KeyMode = iota
	KeyModeMinor
)

func (m KeyMode) String() string {
	switch m {
	case KeyModeMajor:
		return "major"
	case KeyModeMinor:
		return "minor"
	default:
		return "unknown"
	}
}

// MajorProfile is the Krumhansl-Schmuckler major-key weighting, indexed by
// semitone offset from the tonic
var MajorProfile = [chroma.NumPitchClasses]float64{
	6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88,
}

// KeyEstimate is a tonal centre. Mode is always KeyModeMajor: no minor
// profile is compared.
type KeyEstimate struct {
	Root     int     `json:"root"`      // Pitch class 0..11
	RootName string  `json:"root_name"` // Spelled from chroma.KeyNames
	Mode     KeyMode `json:"mode"`
}

// String renders the key as "{root} {mode}", e.g. "Eb major"
func (k KeyEstimate) String() string {
	return fmt.Sprintf("%s %s", k.RootName, k.Mode)
}

// NewKeyEstimate builds a major key on pitch class root
func NewKeyEstimate(root int) KeyEstimate {
	root = chroma.PitchClass(root)
	return KeyEstimate{
		Root:     root,
		RootName: chroma.KeyNames[root],
		Mode:     KeyModeMajor,
	}
}

// ParseKey reads a "{root} major" label produced by KeyEstimate.String
func ParseKey(label string) (KeyEstimate, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return KeyEstimate{}, fmt.Errorf("empty key label")
	}
	if len(fields) > 1 && fields[1] != KeyModeMajor.String() {
		return KeyEstimate{}, fmt.Errorf("unsupported key mode %q", fields[1])
	}
	for pc, name := range chroma.KeyNames {
		if name == fields[0] {
			return NewKeyEstimate(pc), nil
		}
	}
	return KeyEstimate{}, fmt.Errorf("unknown key root %q", fields[0])
}

// KeyEstimator correlates a chroma histogram with the 12 rotations of a
// major key profile
type KeyEstimator struct {
	profile [chroma.NumPitchClasses]float64
}

// NewKeyEstimator creates a key estimator using MajorProfile
func NewKeyEstimator() *KeyEstimator {
	return &KeyEstimator{profile: MajorProfile}
}

// NewKeyEstimatorWithProfile creates a key estimator with a custom profile
func NewKeyEstimatorWithProfile(profile [chroma.NumPitchClasses]float64) *KeyEstimator {
	return &KeyEstimator{profile: profile}
}

// Scores returns score(r) = sum_i chroma[i] * profile[(i-r+12) mod 12] for
// every candidate root r
func (ke *KeyEstimator) Scores(cv chroma.ChromaVector) []float64 {
	scores := make([]float64, chroma.NumPitchClasses)
	rotated := make([]float64, chroma.NumPitchClasses)

	for root := range chroma.NumPitchClasses {
		for i := range chroma.NumPitchClasses {
			rotated[i] = ke.profile[chroma.PitchClass(i-root)]
		}
		scores[root] = floats.Dot(cv[:], rotated)
	}

	return scores
}

// EstimateKey picks the best scoring root; the lowest root wins ties, so an
// empty histogram yields C major
func (ke *KeyEstimator) EstimateKey(cv chroma.ChromaVector) KeyEstimate {
	scores := ke.Scores(cv)
	return NewKeyEstimate(floats.MaxIdx(scores))
}
