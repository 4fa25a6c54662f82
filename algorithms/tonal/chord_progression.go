package tonal

import "github.com/RyanBlaney/sonido-sketch/algorithms/chroma"

// progressionLength is the number of chords in every sketched progression
const progressionLength = 4

// diatonicProgressions maps the supported key roots to a I-V-vi-IV style loop
var diatonicProgressions = map[string][progressionLength]string{
	"C": {"C", "G", "Am", "F"},
	"G": {"G", "D", "Em", "C"},
	"D": {"D", "A", "Bm", "G"},
	"A": {"A", "E", "F#m", "D"},
	"E": {"E", "B", "C#m", "A"},
	"F": {"F", "C", "Dm", "Bb"},
}

// ChordSketcher emits a repeating four-chord progression for a key
type ChordSketcher struct{}

// NewChordSketcher creates a chord sketcher
func NewChordSketcher() *ChordSketcher {
	return &ChordSketcher{}
}

// Progression returns the four-chord loop for key. Roots outside the table
// get a synthesized [root, root5, rootm, F] loop.
func (cs *ChordSketcher) Progression(key KeyEstimate) [progressionLength]string {
	root := key.RootName
	if root == "" {
		root = chroma.KeyNames[chroma.PitchClass(key.Root)]
	}

	if p, ok := diatonicProgressions[root]; ok {
		return p
	}
	return [progressionLength]string{root, root + "5", root + "m", "F"}
}

// Sketch cycles the key's progression for barCount bars.
// A non-positive barCount yields an empty sequence.
func (cs *ChordSketcher) Sketch(key KeyEstimate, barCount int) []string {
	if barCount <= 0 {
		return []string{}
	}

	progression := cs.Progression(key)
	chords := make([]string, barCount)
	for i := range chords {
		chords[i] = progression[i%progressionLength]
	}

	return chords
}
