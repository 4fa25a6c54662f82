package configs

import (
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-sketch/analysis"
	"github.com/RyanBlaney/sonido-sketch/transcode"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "json")

	// Analysis defaults mirror analysis.DefaultConfig
	a := analysis.DefaultConfig()
	v.SetDefault("analysis.detector", a.Detector)
	v.SetDefault("analysis.dominant_frequency.max_bins", a.DominantFreq.MaxBins)
	v.SetDefault("analysis.dominant_frequency.stride", a.DominantFreq.Stride)
	v.SetDefault("analysis.tempo.hop_size", a.Tempo.HopSize)
	v.SetDefault("analysis.tempo.min_bpm", a.Tempo.MinBPM)
	v.SetDefault("analysis.tempo.max_bpm", a.Tempo.MaxBPM)
	v.SetDefault("analysis.tempo.fallback_bpm", a.Tempo.FallbackBPM)
	v.SetDefault("analysis.chroma.window_size", a.Chroma.WindowSize)
	v.SetDefault("analysis.chroma.hop_size", a.Chroma.HopSize)
	v.SetDefault("analysis.chroma.min_freq", a.Chroma.MinFreq)
	v.SetDefault("analysis.chroma.max_freq", a.Chroma.MaxFreq)
	v.SetDefault("analysis.melody.window_size", a.Melody.WindowSize)
	v.SetDefault("analysis.melody.hop_seconds", a.Melody.HopSeconds)
	v.SetDefault("analysis.melody.min_freq", a.Melody.MinFreq)
	v.SetDefault("analysis.melody.max_freq", a.Melody.MaxFreq)
	v.SetDefault("analysis.max_melody_notes", a.MaxMelodyNotes)
	v.SetDefault("analysis.min_bars", a.MinBars)
	v.SetDefault("analysis.seconds_per_bar", a.SecondsPerBar)
	v.SetDefault("analysis.duration_decimals", a.DurationDecimals)
	v.SetDefault("analysis.parallel", a.Parallel)

	// Decoder defaults
	d := transcode.DefaultDecoderConfig()
	v.SetDefault("decoder.ffmpeg_path", d.FFmpegPath)
	v.SetDefault("decoder.ffprobe_path", d.FFprobePath)
	v.SetDefault("decoder.timeout", d.Timeout.String())
	v.SetDefault("decoder.max_duration", "0s")
	v.SetDefault("decoder.disable_ffmpeg", d.DisableFFmpeg)

	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "2m")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_bytes", 64<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})
}
