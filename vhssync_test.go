package vhssync

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marshalleq/vhstimecode/internal/framecodec"
	"github.com/marshalleq/vhstimecode/internal/locker"
	"github.com/marshalleq/vhstimecode/internal/pattern"
)

// TestEndToEndGenerateLockDecodeCorrelate exercises the full public
// pipeline over one PAL cycle: generate, lock, decode both tracks,
// correlate, and check the resulting offset is near zero since the
// generated audio and video share the same frame clock.
func TestEndToEndGenerateLockDecodeCorrelate(t *testing.T) {
	fp := pattern.PAL()

	var audio []float32
	var frames []*framecodec.VideoFrame
	err := GenerateCycle(fp, 0,
		func(samples []float32) { audio = append(audio, samples...) },
		func(frame *framecodec.VideoFrame) { frames = append(frames, frame) },
	)
	require.NoError(t, err)
	require.NotEmpty(t, audio)
	require.Equal(t, fp.Phases.TotalFrames(), len(frames))

	regions, diag := LockCycles(audio, fp, locker.Hint{FirstCycleAtSampleZero: true})
	require.Nil(t, diag)
	require.Len(t, regions, 1)
	region := regions[0]

	section := audio[region.AudioSampleStart:region.AudioSampleEndExclusive]
	audioDetections := DecodeAudioTimecodes(section, region.AudioSampleStart, fp, framecodec.ModeStrict)
	require.NotEmpty(t, audioDetections)

	videoSection := frames[region.VideoFrameStart:region.VideoFrameEndExclusive]
	videoDetections := DecodeVideoTimecodes(videoSection, region.VideoFrameStart)
	require.NotEmpty(t, videoDetections)

	report := Correlate(videoDetections, audioDetections, fp)
	require.Greater(t, report.MatchCount, 0)
	require.InDelta(t, 0, report.MeanOffsetSeconds, 0.05)
}
