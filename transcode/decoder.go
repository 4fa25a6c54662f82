package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/RyanBlaney/sonido-sketch/algorithms/common"
	"github.com/RyanBlaney/sonido-sketch/logging"
)

// ErrUnsupportedFormat is returned when the input is neither WAV nor MP3 and
// ffmpeg cannot be used to decode it
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Format is the container detected from the first bytes of the input
type Format string

const (
	FormatWAV   Format = "wav"
	FormatMP3   Format = "mp3"
	FormatOther Format = "other"
)

// AudioData is decoded mono PCM. Only the first channel of the source is kept.
type AudioData struct {
	PCM        []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channel count of the source
	Duration   time.Duration `json:"duration"`
	Format     Format        `json:"format"`
}

// Signal wraps the PCM for the analysis pipeline
func (a *AudioData) Signal() common.Signal {
	return common.NewSignal(a.PCM, a.SampleRate)
}

// Seconds returns the duration in seconds
func (a *AudioData) Seconds() float64 {
	return a.Duration.Seconds()
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	FFmpegPath    string        `json:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	FFprobePath   string        `json:"ffprobe_path" mapstructure:"ffprobe_path"`
	Timeout       time.Duration `json:"timeout" mapstructure:"timeout"`           // Per ffmpeg/ffprobe invocation
	MaxDuration   time.Duration `json:"max_duration" mapstructure:"max_duration"` // 0 means no limit
	DisableFFmpeg bool          `json:"disable_ffmpeg" mapstructure:"disable_ffmpeg"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		FFmpegPath:  "ffmpeg",  // Assume in PATH
		FFprobePath: "ffprobe", // Assume in PATH
		Timeout:     60 * time.Second,
		MaxDuration: 0,
	}
}

// Decoder decodes WAV and MP3 natively and everything else through ffmpeg
type Decoder struct {
	config *DecoderConfig
}

// AudioMetadata holds detected audio properties from ffprobe
type AudioMetadata struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	Duration   float64 `json:"duration"`
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// Config returns the decoder configuration
func (d *Decoder) Config() *DecoderConfig {
	return d.config
}

// DetectFormat sniffs the container from the leading bytes
func DetectFormat(header []byte) Format {
	switch {
	case len(header) >= 12 && string(header[0:4]) == "RIFF" && string(header[8:12]) == "WAVE":
		return FormatWAV
	case len(header) >= 3 && string(header[0:3]) == "ID3":
		return FormatMP3
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0 && header[1]&0x06 != 0:
		// MPEG audio frame sync. Layer bits 00 are ADTS AAC, left to ffmpeg.
		return FormatMP3
	default:
		return FormatOther
	}
}

// DecodeFile decodes an audio file from disk
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read audio header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind audio file: %w", err)
	}

	format := DetectFormat(header[:n])
	logger.Debug("Detected input format", logging.Fields{"format": format})

	var audioData *AudioData
	switch format {
	case FormatWAV:
		audioData, err = d.decodeWAV(f)
		if errors.Is(err, errNonPCM) {
			audioData, err = d.decodeWithFFmpeg(ctx, filename, nil)
		}
	case FormatMP3:
		audioData, err = d.decodeMP3(f)
		if err != nil {
			logger.Debug("Native mp3 decode failed, trying ffmpeg", logging.Fields{"error": err.Error()})
			audioData, err = d.decodeWithFFmpeg(ctx, filename, nil)
		}
	default:
		audioData, err = d.decodeWithFFmpeg(ctx, filename, nil)
	}
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, err
	}

	logger.Debug("Audio file decoded", logging.Fields{
		"sample_rate": audioData.SampleRate,
		"channels":    audioData.Channels,
		"samples":     len(audioData.PCM),
		"duration":    audioData.Seconds(),
	})

	return audioData, nil
}

// DecodeBytes decodes an in-memory audio file
func (d *Decoder) DecodeBytes(ctx context.Context, data []byte) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeBytes",
		"data_size": len(data),
	})

	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio data")
	}

	var (
		audioData *AudioData
		err       error
	)
	switch DetectFormat(data) {
	case FormatWAV:
		audioData, err = d.decodeWAV(bytes.NewReader(data))
		if errors.Is(err, errNonPCM) {
			audioData, err = d.decodeWithFFmpeg(ctx, "pipe:0", data)
		}
	case FormatMP3:
		audioData, err = d.decodeMP3(bytes.NewReader(data))
		if err != nil {
			logger.Debug("Native mp3 decode failed, trying ffmpeg", logging.Fields{"error": err.Error()})
			audioData, err = d.decodeWithFFmpeg(ctx, "pipe:0", data)
		}
	default:
		audioData, err = d.decodeWithFFmpeg(ctx, "pipe:0", data)
	}
	if err != nil {
		logger.Error(err, "Failed to decode audio bytes")
		return nil, err
	}

	return audioData, nil
}

// DecodeReader decodes audio from an io.Reader
func (d *Decoder) DecodeReader(ctx context.Context, reader io.Reader) (*AudioData, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	return d.DecodeBytes(ctx, data)
}

var errNonPCM = errors.New("wav is not integer PCM")

func (d *Decoder) decodeWAV(r io.ReadSeeker) (*AudioData, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav header", ErrUnsupportedFormat)
	}
	if decoder.WavAudioFormat != 1 {
		return nil, errNonPCM
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav pcm: %w", err)
	}

	pcm := firstChannel(buf)
	sampleRate := int(decoder.SampleRate)

	return d.newAudioData(pcm, sampleRate, int(decoder.NumChans), FormatWAV), nil
}

// firstChannel extracts channel 0 of an interleaved buffer scaled to [-1, 1)
func firstChannel(buf *audio.IntBuffer) []float64 {
	numChannels := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		numChannels = buf.Format.NumChannels
	}

	var (
		scale  float64
		offset int
	)
	switch buf.SourceBitDepth {
	case 8:
		// 8-bit WAV is unsigned
		scale, offset = 128.0, 128
	case 24:
		scale = 8388608.0
	case 32:
		scale = 2147483648.0
	default:
		scale = 32768.0
	}

	frames := len(buf.Data) / numChannels
	pcm := make([]float64, frames)
	for i := range frames {
		pcm[i] = float64(buf.Data[i*numChannels]-offset) / scale
	}
	return pcm
}

func (d *Decoder) decodeMP3(r io.Reader) (*AudioData, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open mp3 stream: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3: %w", err)
	}

	return d.newAudioData(leftChannelPCM16(raw), decoder.SampleRate(), 2, FormatMP3), nil
}

// leftChannelPCM16 takes the left channel of 16-bit little-endian stereo,
// which is what go-mp3 always emits. A trailing partial frame is dropped.
func leftChannelPCM16(raw []byte) []float64 {
	frames := len(raw) / 4
	pcm := make([]float64, frames)
	for i := range frames {
		left := int16(binary.LittleEndian.Uint16(raw[i*4 : i*4+2]))
		pcm[i] = float64(left) / 32768.0
	}
	return pcm
}

// decodeWithFFmpeg probes then decodes input (a path, or "pipe:0" with data on stdin)
func (d *Decoder) decodeWithFFmpeg(ctx context.Context, input string, data []byte) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "decodeWithFFmpeg",
		"input":     input,
	})

	if d.config.DisableFFmpeg {
		return nil, fmt.Errorf("%w: ffmpeg fallback disabled", ErrUnsupportedFormat)
	}

	metadata, err := d.probe(ctx, input, data)
	if err != nil {
		return nil, err
	}

	args := d.buildFFmpegArgs(input, metadata)

	runCtx, cancel := d.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, d.config.FFmpegPath, args...)
	if data != nil {
		cmd.Stdin = bytes.NewReader(data)
	}

	logger.Debug("Running ffmpeg command", logging.Fields{
		"args": strings.Join(args, " "),
	})

	output, err := cmd.Output()
	if err != nil {
		return nil, d.commandError("ffmpeg decode", err)
	}

	pcm := bytesToFloat64(output)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("no audio samples decoded")
	}

	return d.newAudioData(pcm, metadata.SampleRate, metadata.Channels, FormatOther), nil
}

func (d *Decoder) buildFFmpegArgs(input string, metadata *AudioMetadata) []string {
	args := []string{"-v", "error", "-i", input}
	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", d.config.MaxDuration.Seconds()))
	}
	return append(args,
		"-map", "0:a:0",
		"-vn",
		"-af", "pan=mono|c0=c0", // Keep the first channel only
		"-f", "f64le",
		"-ar", strconv.Itoa(metadata.SampleRate),
		"pipe:1",
	)
}

func (d *Decoder) probe(ctx context.Context, input string, data []byte) (*AudioMetadata, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_type,codec_name,sample_rate,channels,duration",
		"-of", "json",
		input,
	}

	runCtx, cancel := d.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, d.config.FFprobePath, args...)
	if data != nil {
		cmd.Stdin = bytes.NewReader(data)
	}

	output, err := cmd.Output()
	if err != nil {
		return nil, d.commandError("ffprobe", err)
	}

	return parseFFprobeOutput(output)
}

func (d *Decoder) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.config.Timeout > 0 {
		return context.WithTimeout(ctx, d.config.Timeout)
	}
	return context.WithCancel(ctx)
}

func (d *Decoder) commandError(what string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s not available: %v", ErrUnsupportedFormat, what, err)
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return fmt.Errorf("%s failed: %w, stderr: %s", what, err, strings.TrimSpace(string(exitError.Stderr)))
	}
	return fmt.Errorf("%s failed: %w", what, err)
}

// parseFFprobeOutput parses ffprobe JSON to extract audio metadata
func parseFFprobeOutput(jsonData []byte) (*AudioMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			Duration   string `json:"duration"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("%w: no audio streams found", ErrUnsupportedFormat)
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("%w: stream is not audio type: %s", ErrUnsupportedFormat, stream.CodecType)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		sampleRate = 44100
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	if stream.Channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	return &AudioMetadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
	}, nil
}

// newAudioData applies MaxDuration and fills in the duration
func (d *Decoder) newAudioData(pcm []float64, sampleRate, channels int, format Format) *AudioData {
	if d.config.MaxDuration > 0 && sampleRate > 0 {
		limit := int(d.config.MaxDuration.Seconds() * float64(sampleRate))
		if len(pcm) > limit {
			pcm = pcm[:limit]
		}
	}

	var duration time.Duration
	if sampleRate > 0 {
		duration = time.Duration(float64(len(pcm)) / float64(sampleRate) * float64(time.Second))
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   duration,
		Format:     format,
	}
}

// bytesToFloat64 converts raw float64 little-endian bytes to samples
func bytesToFloat64(data []byte) []float64 {
	if len(data)%8 != 0 {
		// Trim to multiple of 8 bytes
		data = data[:len(data)-(len(data)%8)]
	}

	if len(data) == 0 {
		return nil
	}

	sampleCount := len(data) / 8
	samples := make([]float64, sampleCount)

	for i := range sampleCount {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return samples
}
