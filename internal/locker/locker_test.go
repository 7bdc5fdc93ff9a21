package locker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marshalleq/vhstimecode/internal/framecodec"
	"github.com/marshalleq/vhstimecode/internal/pattern"
)

func generateCycleAudio(t *testing.T, fp pattern.FormatParameters) []float32 {
	t.Helper()
	var audio []float32
	err := pattern.GenerateCycle(fp, 0,
		func(samples []float32) { audio = append(audio, samples...) },
		func(frame *framecodec.VideoFrame) {},
	)
	require.NoError(t, err)
	return audio
}

// TestLockCyclesScenarioA is spec.md §8 Scenario A: PAL perfect
// reference, phase lengths 75/25/750/25, sample_rate 48000.
func TestLockCyclesScenarioA(t *testing.T) {
	fp := pattern.PAL()
	audio := generateCycleAudio(t, fp)

	regions, diag := LockCycles(audio, fp, Hint{FirstCycleAtSampleZero: true})
	require.Nil(t, diag)
	require.Len(t, regions, 1)

	r := regions[0]
	require.Equal(t, uint64(100), r.VideoFrameStart)
	require.Equal(t, uint64(850), r.VideoFrameEndExclusive)
	require.Equal(t, uint64(192000), r.AudioSampleStart)
	require.Equal(t, uint64(1632000), r.AudioSampleEndExclusive)
}

func TestLockCyclesWithoutHintStillFindsCycle(t *testing.T) {
	fp := pattern.PAL()
	audio := generateCycleAudio(t, fp)

	regions, diag := LockCycles(audio, fp, Hint{})
	require.Nil(t, diag)
	require.Len(t, regions, 1)
	require.Equal(t, uint64(100), regions[0].VideoFrameStart)
}

// TestLockCyclesMultiCycle is spec.md §8 invariant 6 / Scenario E:
// three concatenated cycles separated by silence must yield exactly
// three LockedRegions.
func TestLockCyclesMultiCycle(t *testing.T) {
	fp := pattern.PAL()
	oneCycle := generateCycleAudio(t, fp)

	gapSamples := make([]float32, 2*fp.AudioSampleRate)
	var audio []float32
	for i := 0; i < 3; i++ {
		audio = append(audio, oneCycle...)
		audio = append(audio, gapSamples...)
	}

	regions, diag := LockCycles(audio, fp, Hint{FirstCycleAtSampleZero: true})
	require.Nil(t, diag)
	require.Len(t, regions, 3)

	cycleSamples := int64(len(oneCycle)) + int64(len(gapSamples))
	cycleFrames := int64(fp.Phases.TotalFrames()) + int64(len(gapSamples))/int64(fp.AudioSampleRate)*int64(fp.FPS.Num)/int64(fp.FPS.Den)
	for i, r := range regions {
		frameOffset := uint64(int64(i) * cycleFrames)
		sampleOffset := uint64(int64(i) * cycleSamples)

		require.Equal(t, uint64(100)+frameOffset, r.VideoFrameStart)
		require.Equal(t, uint64(850)+frameOffset, r.VideoFrameEndExclusive)
		require.Equal(t, uint64(192000)+sampleOffset, r.AudioSampleStart)
		require.Equal(t, uint64(1632000)+sampleOffset, r.AudioSampleEndExclusive)
	}
}

func TestLockCyclesEmptyAudioReturnsNoSignal(t *testing.T) {
	regions, diag := LockCycles(nil, pattern.PAL(), Hint{})
	require.Empty(t, regions)
	require.NotNil(t, diag)
}

func TestLockCyclesPureSilenceReturnsNoSignal(t *testing.T) {
	fp := pattern.PAL()
	silence := make([]float32, fp.AudioSampleRate*5)

	regions, diag := LockCycles(silence, fp, Hint{})
	require.Empty(t, regions)
	require.NotNil(t, diag)
}
