package chroma

import (
	"math"
)

// NumPitchClasses is the number of semitone classes in an octave
const NumPitchClasses = 12

// KeyNames spells pitch classes the way key labels are printed. The mix of
// sharps and flats is part of the output format and must not be normalised.
var KeyNames = [NumPitchClasses]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// SharpNames spells pitch classes with sharps only, used for melody notes
var SharpNames = [NumPitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FrequencyToMIDI converts Hz to a fractional MIDI pitch number (A4 = 69 = 440 Hz)
func FrequencyToMIDI(freq float64) float64 {
	return 69 + 12*math.Log2(freq/440.0)
}

// FrequencyToNearestMIDI converts Hz to the nearest integer MIDI pitch number
func FrequencyToNearestMIDI(freq float64) int {
	return int(math.Round(FrequencyToMIDI(freq)))
}

// MIDIToFrequency converts a MIDI pitch number back to Hz
func MIDIToFrequency(midi int) float64 {
	return 440.0 * math.Pow(2, float64(midi-69)/12.0)
}

// PitchClass folds a MIDI pitch number into 0..11, also for negative input
func PitchClass(midi int) int {
	return ((midi % NumPitchClasses) + NumPitchClasses) % NumPitchClasses
}

// Octave returns the scientific-pitch octave of a MIDI number (60 = C4)
func Octave(midi int) int {
	return int(math.Floor(float64(midi)/NumPitchClasses)) - 1
}
