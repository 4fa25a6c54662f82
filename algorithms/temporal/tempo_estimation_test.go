package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clickTrack places a short burst every period samples
func clickTrack(sampleRate int, seconds float64, bpm float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	period := int(60.0 / bpm * float64(sampleRate))
	burst := sampleRate / 50

	signal := make([]float64, n)
	for start := 0; start < n; start += period {
		for j := 0; j < burst && start+j < n; j++ {
			signal[start+j] = 0.9 * math.Sin(2*math.Pi*1000*float64(j)/float64(sampleRate))
		}
	}
	return signal
}

func TestEnvelopeComputeMeanAbs(t *testing.T) {
	env := NewEnvelope()

	signal := []float64{1, -1, 0.5, -0.5, 0.25, 0.25, 9}
	got := env.ComputeMeanAbs(signal, 2)

	require.Len(t, got, 3)
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 0.5, got[1], 1e-12)
	assert.InDelta(t, 0.25, got[2], 1e-12)

	assert.Empty(t, env.ComputeMeanAbs(signal, 0))
	assert.Empty(t, env.ComputeMeanAbs([]float64{1}, 2))
}

func TestEnvelopeLengthIsFloorOfBlocks(t *testing.T) {
	env := NewEnvelope()
	for _, n := range []int{1024, 2047, 2048, 10000} {
		assert.Len(t, env.ComputeMeanAbs(make([]float64, n), 1024), n/1024)
	}
}

func TestLagRange(t *testing.T) {
	te := NewTempoEstimation()

	minLag, maxLag := te.LagRange(44100)
	assert.Equal(t, 14, minLag) // floor(60/180 * 44100/1024)
	assert.Equal(t, 36, maxLag) // floor(60/70 * 44100/1024)
}

func TestEstimateBPMSilenceFallsBack(t *testing.T) {
	te := NewTempoEstimation()

	assert.Equal(t, 120, te.EstimateBPM(make([]float64, 44100*5), 44100))
}

func TestEstimateBPMShortSignalFallsBack(t *testing.T) {
	te := NewTempoEstimation()

	// Fewer envelope blocks than the smallest lag
	signal := clickTrack(44100, 0.2, 120)
	assert.Equal(t, 120, te.EstimateBPM(signal, 44100))
}

func TestEstimateBPMClickTrack(t *testing.T) {
	const sampleRate = 44100
	te := NewTempoEstimation()

	signal := clickTrack(sampleRate, 12, 100)
	bpm := te.EstimateBPM(signal, sampleRate)

	assert.GreaterOrEqual(t, bpm, 70)
	assert.LessOrEqual(t, bpm, 190)
	assert.InDelta(t, 100, bpm, 6)
}

func TestEstimateBPMDeterministic(t *testing.T) {
	signal := clickTrack(22050, 8, 132)
	te := NewTempoEstimation()

	assert.Equal(t, te.EstimateBPM(signal, 22050), te.EstimateBPM(signal, 22050))
}

func TestEstimateBPMIsLagDerived(t *testing.T) {
	const sampleRate = 44100
	te := NewTempoEstimation()
	minLag, maxLag := te.LagRange(sampleRate)

	bpm := te.EstimateBPM(clickTrack(sampleRate, 10, 150), sampleRate)

	matched := false
	for lag := minLag; lag <= maxLag; lag++ {
		if int(math.Round(60.0/(float64(lag)*1024/sampleRate))) == bpm {
			matched = true
			break
		}
	}
	assert.True(t, matched, "bpm %d does not correspond to any searched lag", bpm)
}
