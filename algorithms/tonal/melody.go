package tonal

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/RyanBlaney/sonido-sketch/algorithms/chroma"
	"github.com/RyanBlaney/sonido-sketch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sketch/logging"
)

// MelodyNotDetected is returned as the only melody element when no window
// produced an in-range pitch. It is a valid result, not an error.
const MelodyNotDetected = "(melody not detected)"

// Note is a pitch name and octave derived from a MIDI pitch number
type Note struct {
	MIDI   int    `json:"midi"`
	Name   string `json:"name"`
	Octave int    `json:"octave"`
}

// NoteFromMIDI spells a MIDI number with sharp-only names
func NoteFromMIDI(midi int) Note {
	return Note{
		MIDI:   midi,
		Name:   chroma.SharpNames[chroma.PitchClass(midi)],
		Octave: chroma.Octave(midi),
	}
}

// NoteFromFrequency spells the nearest MIDI pitch of freq
func NoteFromFrequency(freq float64) Note {
	return NoteFromMIDI(chroma.FrequencyToNearestMIDI(freq))
}

// ParseNote reads a sharp-spelled note such as "C#4" or "B-2" back into a Note
func ParseNote(s string) (Note, error) {
	for _, width := range []int{2, 1} {
		if len(s) <= width {
			continue
		}
		pc := slices.Index(chroma.SharpNames[:], s[:width])
		if pc < 0 {
			continue
		}
		octave, err := strconv.Atoi(s[width:])
		if err != nil {
			return Note{}, fmt.Errorf("invalid octave in note %q: %w", s, err)
		}
		return NoteFromMIDI((octave+1)*chroma.NumPitchClasses + pc), nil
	}
	return Note{}, fmt.Errorf("unrecognised note %q", s)
}

// String renders the note as "{name}{octave}", e.g. "C#4"
func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

// MelodyParams controls the melody scan
type MelodyParams struct {
	WindowSize int     `json:"window_size" mapstructure:"window_size"`
	HopSeconds float64 `json:"hop_seconds" mapstructure:"hop_seconds"` // Hop is round(sampleRate * HopSeconds)
	MinFreq    float64 `json:"min_freq" mapstructure:"min_freq"`
	MaxFreq    float64 `json:"max_freq" mapstructure:"max_freq"`
}

// DefaultMelodyParams returns 4096-sample windows every quarter second, 80-1200 Hz
func DefaultMelodyParams() MelodyParams {
	return MelodyParams{
		WindowSize: 4096,
		HopSeconds: 0.25,
		MinFreq:    80,
		MaxFreq:    1200,
	}
}

// MelodyExtractor converts one dominant frequency per window into a note
type MelodyExtractor struct {
	params   MelodyParams
	detector spectral.FrequencyDetector
}

// NewMelodyExtractor creates a melody extractor with default parameters
func NewMelodyExtractor(detector spectral.FrequencyDetector) *MelodyExtractor {
	return NewMelodyExtractorWithParams(DefaultMelodyParams(), detector)
}

// NewMelodyExtractorWithParams creates a melody extractor with custom parameters
func NewMelodyExtractorWithParams(params MelodyParams, detector spectral.FrequencyDetector) *MelodyExtractor {
	if detector == nil {
		detector = spectral.NewPartialDFT()
	}
	return &MelodyExtractor{
		params:   params,
		detector: detector,
	}
}

// HopSize returns the window step in samples for sampleRate
func (me *MelodyExtractor) HopSize(sampleRate int) int {
	return int(math.Round(float64(sampleRate) * me.params.HopSeconds))
}

// ExtractNotes scans the signal and returns at most maxCount notes. The scan
// stops as soon as maxCount notes are collected. The result may be empty;
// a maxCount of zero or less scans no windows.
func (me *MelodyExtractor) ExtractNotes(signal []float64, sampleRate int, maxCount int) []Note {
	if maxCount <= 0 {
		return []Note{}
	}

	win := me.params.WindowSize
	hop := me.HopSize(sampleRate)
	if hop <= 0 {
		return []Note{}
	}

	notes := make([]Note, 0, maxCount)
	for start := 0; start+win < len(signal) && len(notes) < maxCount; start += hop {
		freq := me.detector.DominantFrequency(signal[start:start+win], sampleRate)
		if freq < me.params.MinFreq || freq > me.params.MaxFreq {
			continue
		}
		notes = append(notes, NoteFromFrequency(freq))
	}

	return notes
}

// ExtractMelody returns note identifiers such as "A4". When nothing is
// detected the single-element sequence [MelodyNotDetected] is returned.
func (me *MelodyExtractor) ExtractMelody(signal []float64, sampleRate int, maxCount int) []string {
	notes := me.ExtractNotes(signal, sampleRate, maxCount)
	if len(notes) == 0 {
		logging.Debug("No melodic pitch detected", logging.Fields{
			"component": "melody_extractor",
			"samples":   len(signal),
		})
		return []string{MelodyNotDetected}
	}

	melody := make([]string, len(notes))
	for i, n := range notes {
		melody[i] = n.String()
	}
	return melody
}
