package tonal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSketchTableProgressions(t *testing.T) {
	cs := NewChordSketcher()

	assert.Equal(t, []string{"C", "G", "Am", "F"}, cs.Sketch(NewKeyEstimate(0), 4))
	assert.Equal(t, []string{"G", "D", "Em", "C", "G"}, cs.Sketch(NewKeyEstimate(7), 5))
	assert.Equal(t, []string{"F", "C", "Dm", "Bb"}, cs.Sketch(NewKeyEstimate(5), 4))
	assert.Equal(t, []string{"A", "E", "F#m", "D"}, cs.Sketch(NewKeyEstimate(9), 4))
}

func TestSketchFallbackProgression(t *testing.T) {
	cs := NewChordSketcher()

	assert.Equal(t, []string{"Eb", "Eb5", "Ebm", "F"}, cs.Sketch(NewKeyEstimate(3), 4))
	assert.Equal(t, []string{"F#", "F#5", "F#m", "F", "F#", "F#5"}, cs.Sketch(NewKeyEstimate(6), 6))
	assert.Equal(t, []string{"B", "B5", "Bm", "F"}, cs.Sketch(NewKeyEstimate(11), 4))
}

func TestSketchLengthAndCycle(t *testing.T) {
	cs := NewChordSketcher()

	for root := range 12 {
		key := NewKeyEstimate(root)
		for n := 0; n <= 17; n++ {
			chords := cs.Sketch(key, n)
			assert.Len(t, chords, n)
			for i := range chords {
				assert.Equal(t, chords[i%4], chords[i], "root %d bars %d index %d", root, n, i)
			}
		}
	}
}

func TestSketchNegativeBarCount(t *testing.T) {
	assert.Empty(t, NewChordSketcher().Sketch(NewKeyEstimate(0), -3))
}

func TestProgressionFromRootOnly(t *testing.T) {
	cs := NewChordSketcher()

	p := cs.Progression(KeyEstimate{Root: 2})
	assert.Equal(t, [4]string{"D", "A", "Bm", "G"}, p)
}
