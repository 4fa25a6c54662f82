package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RyanBlaney/sonido-sketch/algorithms/tonal"
	"github.com/RyanBlaney/sonido-sketch/analysis"
)

const (
	ticksPerQuarter = 480
	noteVelocity    = 90
	midiChannel     = 0
)

var titleCaser = cases.Title(language.English)

// TrackTitle derives a display title from an audio file name: "my_song-v2.wav" → "My Song V2"
func TrackTitle(fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" || base == "." {
		return "Melody Sketch"
	}
	return titleCaser.String(base)
}

// MelodyNotes parses the melody of a result. The not-detected sentinel yields no notes.
func MelodyNotes(result *analysis.Result) ([]tonal.Note, error) {
	notes := make([]tonal.Note, 0, len(result.Melody))
	for _, name := range result.Melody {
		if name == tonal.MelodyNotDetected {
			continue
		}
		note, err := tonal.ParseNote(name)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// BuildMIDI lays the melody out as consecutive quarter notes at the result's BPM
func BuildMIDI(result *analysis.Result) (*smf.SMF, error) {
	notes, err := MelodyNotes(result)
	if err != nil {
		return nil, err
	}

	bpm := float64(result.BPM)
	if bpm <= 0 {
		bpm = 120
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	quarter := smf.MetricTicks(ticksPerQuarter).Ticks4th()

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(TrackTitle(result.FileName)))
	tr.Add(0, smf.MetaTempo(bpm))
	tr.Add(0, smf.MetaMeter(4, 4))

	for _, note := range notes {
		if note.MIDI < 0 || note.MIDI > 127 {
			// Unplayable on a MIDI keyboard; keep the timing with a rest
			tr.Add(quarter, smf.MetaText(note.String()))
			continue
		}
		key := uint8(note.MIDI)
		tr.Add(0, midi.NoteOn(midiChannel, key, noteVelocity))
		tr.Add(quarter, midi.NoteOff(midiChannel, key))
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("failed to add melody track: %w", err)
	}
	return s, nil
}

// WriteMIDI writes the melody as a standard MIDI file
func WriteMIDI(w io.Writer, result *analysis.Result) error {
	s, err := BuildMIDI(result)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write midi: %w", err)
	}
	return nil
}

// WriteMIDIFile writes the melody to path
func WriteMIDIFile(path string, result *analysis.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteMIDI(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
