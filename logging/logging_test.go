package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warning": WarnLevel,
		" error ": ErrorLevel,
		"fatal":   FatalLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestDefaultLoggerRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)

	logger.Debug("hidden")
	logger.Info("analysis done", Fields{"bpm": 120, "key": "C major"})
	logger.Error(errors.New("boom"), "decode failed")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "[INFO] analysis done bpm=120 key=C major")
	assert.Contains(t, stderr.String(), "[ERROR] decode failed: boom")
}

func TestWithFieldsSharesLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	parent := NewDefaultLoggerWithWriters(&stdout, &stderr)
	child := parent.WithFields(Fields{"component": "tempo"})

	parent.SetLevel(DebugLevel)
	child.Debug("lag scan")

	assert.Contains(t, stdout.String(), "[DEBUG] lag scan component=tempo")
}

func TestWithContextFields(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)

	ctx := ContextWithFields(context.Background(), Fields{"request_id": "abc"})
	ctx = ContextWithFields(ctx, Fields{"file_name": "song.wav"})
	logger.WithContext(ctx).Info("received")

	assert.Contains(t, stdout.String(), "file_name=song.wav request_id=abc")

	fields, ok := FieldsFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, fields)
}

func TestFatalCallsExit(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewDefaultLoggerWithWriters(&stdout, &stderr)

	code := -1
	logger.exit = func(c int) { code = c }
	logger.Fatal(errors.New("no input"), "cannot continue")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[FATAL] cannot continue: no input")
}

func TestSetGlobalLoggerNil(t *testing.T) {
	previous := GetGlobalLogger()
	defer SetGlobalLogger(previous)

	SetGlobalLogger(nil)
	assert.IsType(t, &NoOpLogger{}, GetGlobalLogger())
	Info("discarded")
}
