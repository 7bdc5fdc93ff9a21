package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sineBlock(freqHz float64, sampleRate, n int, amplitude float64) []float32 {
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		out[i] = float32(amplitude * math.Sin(2*math.Pi*freqHz*t))
	}
	return out
}

func TestApplyFadeWindowPreservesInterior(t *testing.T) {
	samples := sineBlock(800, 48000, 480, 0.6)
	before := append([]float32(nil), samples...)
	ApplyFadeWindow(samples, 0.05)

	mid := len(samples) / 2
	require.InDelta(t, before[mid], samples[mid], 1e-6, "interior must be unwindowed")
	require.Less(t, math.Abs(float64(samples[0])), math.Abs(float64(before[0]))+1e-9)
	require.InDelta(t, 0, samples[0], 0.2, "first sample should be faded near zero")
}

func TestZeroCrossingRateEstimatesFrequency(t *testing.T) {
	samples := sineBlock(800, 48000, 4800, 0.6)
	_, hz := ZeroCrossingRate(samples, 48000)
	require.InDelta(t, 800, hz, 20)
}

func TestAutocorrelationPeakFindsPitch(t *testing.T) {
	samples := sineBlock(1600, 48000, 480, 0.6)
	lag, peak, sidelobe := AutocorrelationPeak(samples, 48000, 500, 2000)
	gotHz := float64(48000) / float64(lag)
	require.InDelta(t, 1600, gotHz, 100)
	require.Greater(t, peak, sidelobe)
}

func TestGoertzelMagnitudePeaksAtTarget(t *testing.T) {
	samples := sineBlock(800, 48000, 480, 0.6)
	zero := GoertzelMagnitude(samples, 48000, 800)
	one := GoertzelMagnitude(samples, 48000, 1600)
	require.Greater(t, zero, one)
}

func TestClassifyFrequencyGuardBand(t *testing.T) {
	require.Equal(t, SymbolZero, ClassifyFrequency(800))
	require.Equal(t, SymbolOne, ClassifyFrequency(1600))
	require.Equal(t, SymbolNone, ClassifyFrequency(1100)) // guard band
	require.Equal(t, SymbolNone, ClassifyFrequency(200))  // below range
}
