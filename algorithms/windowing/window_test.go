package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoefficients(t *testing.T) {
	rect, err := Coefficients(Rectangular, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, rect)

	hann, err := Coefficients(Hann, 4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 0.5}, hann, 1e-12)

	hamming, err := Coefficients(Hamming, 4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.08, 0.54, 1, 0.54}, hamming, 1e-12)

	_, err = Coefficients(Hann, 0)
	assert.Error(t, err)
	_, err = Coefficients("triangle", 8)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	hann, err := Coefficients(Hann, 4)
	require.NoError(t, err)

	frame := []float64{2, 2, 2, 2}
	assert.InDeltaSlice(t, []float64{0, 1, 2, 1}, Apply(frame, hann), 1e-12)
	assert.Equal(t, []float64{2, 2, 2, 2}, frame)
	assert.Nil(t, Apply(frame[:3], hann))
}
