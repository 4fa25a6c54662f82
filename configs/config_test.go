package configs

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-sketch/analysis"
	"github.com/RyanBlaney/sonido-sketch/transcode"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "json", config.OutputFormat)
	assert.Equal(t, *analysis.DefaultConfig(), config.Analysis)
	assert.Equal(t, *transcode.DefaultDecoderConfig(), config.Decoder)
	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, 2*time.Minute, config.Server.WriteTimeout)
	assert.Equal(t, int64(64<<20), config.Server.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, config.Server.AllowedOrigins)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SONIDO_SKETCH_ANALYSIS_DETECTOR", "fft")
	t.Setenv("SONIDO_SKETCH_ANALYSIS_MAX_MELODY_NOTES", "8")
	t.Setenv("SONIDO_SKETCH_DECODER_MAX_DURATION", "90s")
	t.Setenv("SONIDO_SKETCH_SERVER_ADDRESS", "127.0.0.1:9000")

	config, err := LoadConfig(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "fft", config.Analysis.Detector)
	assert.Equal(t, 8, config.Analysis.MaxMelodyNotes)
	assert.Equal(t, 90*time.Second, config.Decoder.MaxDuration)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Address)
}

func TestConfigFileOverrides(t *testing.T) {
	v := NewViper()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
log_level: debug
analysis:
  parallel: true
  tempo:
    min_bpm: 60
server:
  allowed_origins: ["https://sketch.example"]
`)))

	config, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LogLevel)
	assert.True(t, config.Analysis.Parallel)
	assert.Equal(t, 60.0, config.Analysis.Tempo.MinBPM)
	assert.Equal(t, 180.0, config.Analysis.Tempo.MaxBPM)
	assert.Equal(t, []string{"https://sketch.example"}, config.Server.AllowedOrigins)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"output format", func(c *Config) { c.OutputFormat = "csv" }},
		{"detector", func(c *Config) { c.Analysis.Detector = "wavelet" }},
		{"decoder timeout", func(c *Config) { c.Decoder.Timeout = -time.Second }},
		{"max duration", func(c *Config) { c.Decoder.MaxDuration = -time.Second }},
		{"upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(NewViper())
			require.NoError(t, err)

			tt.mutate(config)
			assert.Error(t, ValidateConfig(config))
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, NewViper()))
	assert.Contains(t, buf.String(), "detector: partial_dft")

	v := NewViper()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(&buf))

	config, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, *analysis.DefaultConfig(), config.Analysis)
	assert.Equal(t, 60*time.Second, config.Decoder.Timeout)
}
