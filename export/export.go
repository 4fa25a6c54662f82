package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-sketch/analysis"
)

// DefaultFileName is the file name used when a JSON result is saved without one
const DefaultFileName = "analysis-result.json"

// Format selects how a result is rendered
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ParseFormat accepts json, yaml/yml and text/txt
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Write renders result in the given format
func Write(w io.Writer, format Format, result *analysis.Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, result)
	case FormatYAML:
		return WriteYAML(w, result)
	case FormatText:
		return WriteText(w, result)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteFile renders result into path, replacing any existing file
func WriteFile(path string, format Format, result *analysis.Result) error {
	var buf bytes.Buffer
	if err := Write(&buf, format, result); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes the result with two-space indentation
func WriteJSON(w io.Writer, result *analysis.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ReadJSON reads a result written by WriteJSON
func ReadJSON(r io.Reader) (*analysis.Result, error) {
	var result analysis.Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &result, nil
}

// WriteYAML writes the result as a YAML document
func WriteYAML(w io.Writer, result *analysis.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return enc.Close()
}

// ReadYAML reads a result written by WriteYAML
func ReadYAML(r io.Reader) (*analysis.Result, error) {
	var result analysis.Result
	if err := yaml.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &result, nil
}

// WriteText writes a short human readable summary
func WriteText(w io.Writer, result *analysis.Result) error {
	var b strings.Builder
	if result.FileName != "" {
		fmt.Fprintf(&b, "File:     %s\n", result.FileName)
	}
	fmt.Fprintf(&b, "Duration: %gs\n", result.DurationSec)
	fmt.Fprintf(&b, "BPM:      %d\n", result.BPM)
	fmt.Fprintf(&b, "Key:      %s\n", result.Key)
	fmt.Fprintf(&b, "Chords:   %s\n", strings.Join(result.Chords, " | "))
	fmt.Fprintf(&b, "Melody:   %s\n", strings.Join(result.Melody, ", "))
	fmt.Fprintf(&b, "\n%s\n", result.Note)

	_, err := io.WriteString(w, b.String())
	return err
}
