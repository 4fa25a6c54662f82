package analysis

// Disclaimer is attached to every result
const Disclaimer = "Approximate estimate. Accurate transcription requires a more advanced model."

// Result is the aggregate produced by one analysis run. It is built once and
// not modified afterwards.
type Result struct {
	FileName    string   `json:"fileName" yaml:"fileName"`
	DurationSec float64  `json:"durationSec" yaml:"durationSec"`
	BPM         int      `json:"bpm" yaml:"bpm"`
	Key         string   `json:"key" yaml:"key"`
	Chords      []string `json:"chords" yaml:"chords"`
	Melody      []string `json:"melody" yaml:"melody"`
	Note        string   `json:"note" yaml:"note"`
}
