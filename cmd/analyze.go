package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-sketch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sketch/analysis"
	"github.com/RyanBlaney/sonido-sketch/export"
	"github.com/RyanBlaney/sonido-sketch/logging"
	"github.com/RyanBlaney/sonido-sketch/transcode"
)

var analyzeFlagKeys = map[string]string{
	"output":       "output_format",
	"max-notes":    "analysis.max_melody_notes",
	"parallel":     "analysis.parallel",
	"detector":     "analysis.detector",
	"max-duration": "decoder.max_duration",
	"ffmpeg":       "decoder.ffmpeg_path",
	"ffprobe":      "decoder.ffprobe_path",
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <audio-file>",
	Short: "Sketch tempo, key, chords and melody of an audio file",
	Long: `Decode an audio file and print a rough sketch of it.

WAV and MP3 are decoded natively; other formats are decoded with ffmpeg
when it is available. Only the first channel is analyzed.

Examples:
  sonido-sketch analyze take1.wav
  sonido-sketch analyze take1.mp3 --output yaml
  sonido-sketch analyze take1.flac --out analysis-result.json --midi melody.mid`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("output", "o", "json", "output format (json, yaml, text)")
	analyzeCmd.Flags().String("out", "", "write the result to this file instead of stdout")
	analyzeCmd.Flags().String("midi", "", "also write the melody as a MIDI file")
	analyzeCmd.Flags().Int("max-notes", 16, "maximum number of melody notes")
	analyzeCmd.Flags().Bool("parallel", false, "run the estimators concurrently")
	analyzeCmd.Flags().String("detector", spectral.DetectorPartialDFT, detectorUsage())
	analyzeCmd.Flags().Duration("max-duration", 0, "only analyze the first part of the file (0 = whole file)")
	analyzeCmd.Flags().String("ffmpeg", "ffmpeg", "path to the ffmpeg binary")
	analyzeCmd.Flags().String("ffprobe", "ffprobe", "path to the ffprobe binary")
}

// detectorUsage lists every registered dominant frequency detector
func detectorUsage() string {
	return "dominant frequency detector (" + strings.Join(spectral.DetectorNames, ", ") + ")"
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, analyzeFlagKeys)
	if err != nil {
		return err
	}

	inputPath := args[0]
	logger := logging.WithFields(logging.Fields{
		"component": "cli",
		"function":  "analyze",
		"file":      inputPath,
	})

	format, err := export.ParseFormat(config.OutputFormat)
	if err != nil {
		return err
	}

	analyzer, err := analysis.NewAnalyzer(&config.Analysis)
	if err != nil {
		return err
	}

	audioData, err := transcode.NewDecoder(&config.Decoder).DecodeFile(cmd.Context(), inputPath)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", inputPath, err)
	}

	result, err := analyzer.Analyze(cmd.Context(), analysis.Input{
		FileName: filepath.Base(inputPath),
		Signal:   audioData.Signal(),
		Duration: audioData.Seconds(),
	})
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", inputPath, err)
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		if err := export.WriteFile(outPath, format, result); err != nil {
			return err
		}
		logger.Info("Result written", logging.Fields{"out": outPath})
	} else if err := export.Write(os.Stdout, format, result); err != nil {
		return err
	}

	midiPath, _ := cmd.Flags().GetString("midi")
	if midiPath != "" {
		if err := export.WriteMIDIFile(midiPath, result); err != nil {
			return err
		}
		logger.Info("Melody MIDI written", logging.Fields{"midi": midiPath})
	}

	return nil
}
