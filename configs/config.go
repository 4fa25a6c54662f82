package configs

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-sketch/analysis"
	"github.com/RyanBlaney/sonido-sketch/export"
	"github.com/RyanBlaney/sonido-sketch/logging"
	"github.com/RyanBlaney/sonido-sketch/transcode"
)

// EnvPrefix is prepended to environment overrides, e.g. SONIDO_SKETCH_SERVER_ADDRESS
const EnvPrefix = "SONIDO_SKETCH"

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Analysis pipeline configuration
	Analysis analysis.Config `mapstructure:"analysis"`

	// Decoder configuration
	Decoder transcode.DecoderConfig `mapstructure:"decoder"`

	// HTTP API configuration
	Server ServerConfig `mapstructure:"server"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// NewViper returns a viper instance with env overrides and defaults applied
func NewViper() *viper.Viper {
	v := viper.New()
	Configure(v)
	return v
}

// Configure applies env overrides and defaults to v
func Configure(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// LoadConfig loads configuration from viper
func LoadConfig(v *viper.Viper) (*Config, error) {
	config := &Config{}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if _, err := logging.ParseLevel(config.LogLevel); err != nil {
		return err
	}

	if _, err := export.ParseFormat(config.OutputFormat); err != nil {
		return err
	}

	if err := config.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	if config.Decoder.Timeout < 0 {
		return fmt.Errorf("decoder timeout cannot be negative")
	}

	if config.Decoder.MaxDuration < 0 {
		return fmt.Errorf("decoder max duration cannot be negative")
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server max upload bytes must be positive")
	}

	return nil
}

// WriteYAML writes the effective settings of v as a YAML document
func WriteYAML(w io.Writer, v *viper.Viper) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v.AllSettings()); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
