package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalValidate(t *testing.T) {
	tests := []struct {
		name    string
		signal  Signal
		wantErr error
	}{
		{"valid", NewSignal([]float64{0.1, -0.2}, 44100), nil},
		{"empty", NewSignal(nil, 44100), ErrEmptySignal},
		{"zero rate", NewSignal([]float64{0.1}, 0), ErrInvalidSampleRate},
		{"negative rate", NewSignal([]float64{0.1}, -8000), ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.signal.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestSignalDurationAndFrame(t *testing.T) {
	samples := make([]float64, 22050)
	for i := range samples {
		samples[i] = float64(i)
	}
	s := NewSignal(samples, 44100)

	assert.InDelta(t, 0.5, s.Duration(), 1e-12)
	assert.Equal(t, 22050, s.Len())

	frame := s.Frame(100, 4)
	assert.Equal(t, []float64{100, 101, 102, 103}, frame)
}

func TestFrameCount(t *testing.T) {
	assert.Equal(t, 0, FrameCount(4096, 4096, 2048))
	assert.Equal(t, 1, FrameCount(4097, 4096, 2048))
	assert.Equal(t, 1, FrameCount(6144, 4096, 2048))
	assert.Equal(t, 2, FrameCount(6145, 4096, 2048))
	assert.Equal(t, 0, FrameCount(10, 4, 0))
}

func TestReductions(t *testing.T) {
	assert.InDelta(t, 0.5, MeanAbs([]float64{-1, 1, 0, 0}), 1e-12)
	assert.Equal(t, 0.0, MeanAbs(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
	assert.Equal(t, 0.0, Mean(nil))

	assert.Equal(t, 1, ArgMax([]float64{1, 3, 3, 2}))
	assert.Equal(t, -1, ArgMax(nil))

	data := []float64{1, 2, 3, 4}
	assert.Equal(t, 1*3.0+2*4.0, LaggedDot(data, 2))
	assert.Equal(t, 0.0, LaggedDot(data, 4))

	assert.Equal(t, 3.14, RoundTo(3.14159, 2))
	assert.True(t, IsFinite(1))
}
