package tonal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDetector struct {
	freq  float64
	calls int
}

func (f *fixedDetector) DominantFrequency(frame []float64, sampleRate int) float64 {
	f.calls++
	return f.freq
}

func tone(freq float64, sampleRate int, seconds float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.6 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestNoteFromMIDI(t *testing.T) {
	assert.Equal(t, "C4", NoteFromMIDI(60).String())
	assert.Equal(t, "A4", NoteFromMIDI(69).String())
	assert.Equal(t, "D#3", NoteFromMIDI(51).String())
	assert.Equal(t, "B-2", NoteFromMIDI(-1).String())
	assert.Equal(t, "A#5", NoteFromFrequency(932.33).String())
}

func TestExtractMelodySilenceSentinel(t *testing.T) {
	me := NewMelodyExtractor(nil)

	melody := me.ExtractMelody(make([]float64, 44100*3), 44100, 16)
	assert.Equal(t, []string{MelodyNotDetected}, melody)
}

func TestExtractMelodyShortSignalSentinel(t *testing.T) {
	me := NewMelodyExtractor(nil)

	melody := me.ExtractMelody(tone(440, 44100, 0.05), 44100, 16)
	assert.Equal(t, []string{MelodyNotDetected}, melody)
}

func TestExtractMelodyTone(t *testing.T) {
	const sampleRate = 44100
	me := NewMelodyExtractor(nil)

	melody := me.ExtractMelody(tone(440, sampleRate, 3), sampleRate, 16)

	// starts every 11025 samples while start+4096 < 132300
	require.Len(t, melody, 12)
	for _, note := range melody {
		assert.Equal(t, "A4", note)
	}
}

func TestExtractMelodyNonPositiveMax(t *testing.T) {
	for _, maxCount := range []int{0, -1} {
		det := &fixedDetector{freq: 440}
		me := NewMelodyExtractor(det)

		melody := me.ExtractMelody(make([]float64, 441000), 44100, maxCount)
		assert.Equal(t, []string{MelodyNotDetected}, melody, maxCount)
		assert.Empty(t, me.ExtractNotes(make([]float64, 441000), 44100, maxCount))
		assert.Zero(t, det.calls, maxCount)
	}
}

func TestExtractMelodyStopsAtMaxCount(t *testing.T) {
	det := &fixedDetector{freq: 261.63}
	me := NewMelodyExtractor(det)

	melody := me.ExtractMelody(make([]float64, 44100*10), 44100, 5)

	assert.Equal(t, []string{"C4", "C4", "C4", "C4", "C4"}, melody)
	assert.Equal(t, 5, det.calls)
}

func TestExtractMelodyRejectsOutOfBand(t *testing.T) {
	for _, freq := range []float64{79.9, 1200.5} {
		me := NewMelodyExtractor(&fixedDetector{freq: freq})
		assert.Equal(t, []string{MelodyNotDetected}, me.ExtractMelody(make([]float64, 44100*2), 44100, 16))
	}
}

func TestExtractNotesNeverExceedsMax(t *testing.T) {
	me := NewMelodyExtractor(&fixedDetector{freq: 440})
	signal := make([]float64, 48000*20)

	for _, maxCount := range []int{1, 3, 16, 100} {
		notes := me.ExtractNotes(signal, 48000, maxCount)
		assert.LessOrEqual(t, len(notes), maxCount)
	}
}

func TestMelodyHopSize(t *testing.T) {
	me := NewMelodyExtractor(nil)

	assert.Equal(t, 11025, me.HopSize(44100))
	assert.Equal(t, 12000, me.HopSize(48000))
	assert.Equal(t, 5513, me.HopSize(22050))
}

func TestParseNote(t *testing.T) {
	for _, midi := range []int{-1, 0, 57, 60, 61, 69, 70, 127} {
		note := NoteFromMIDI(midi)
		parsed, err := ParseNote(note.String())
		require.NoError(t, err, note.String())
		assert.Equal(t, note, parsed)
	}

	for _, bad := range []string{"", "H4", "C", "C#x", "Eb4", MelodyNotDetected} {
		_, err := ParseNote(bad)
		assert.Error(t, err, bad)
	}
}
