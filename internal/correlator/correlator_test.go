package correlator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marshalleq/vhstimecode/internal/framecodec"
	"github.com/marshalleq/vhstimecode/internal/pattern"
)

// TestCorrelateSequentialMatching is spec.md §8 invariant 7: video ids
// [0,1,2,3,4] and audio ids [0,1,2,3,4] with a constant offset δ
// produce five matches each with offset ≈ δ.
func TestCorrelateSequentialMatching(t *testing.T) {
	fp := pattern.PAL()
	const delta = 0.25

	var video []framecodec.VideoDetection
	var audio []framecodec.AudioDetection
	for id := uint32(0); id < 5; id++ {
		videoFrame := uint64(id) * 10
		video = append(video, framecodec.VideoDetection{VideoFrameIndex: videoFrame, FrameID: id, Confidence: 0.9})

		videoTime := float64(videoFrame) / fp.FPS.Float64()
		audioSample := uint64((videoTime + delta) * float64(fp.AudioSampleRate))
		audio = append(audio, framecodec.AudioDetection{SamplePosition: audioSample, FrameID: id, Confidence: 0.8})
	}

	report := Correlate(video, audio, fp)
	require.Equal(t, 5, report.MatchCount)
	for _, m := range report.Matches {
		require.InDelta(t, delta, m.OffsetSeconds, 1e-9)
		require.Equal(t, 0.8, m.Confidence)
	}
	require.InDelta(t, delta, report.MeanOffsetSeconds, 1e-9)
	require.InDelta(t, 0, report.StdDevSeconds, 1e-9)
}

// TestCorrelateSkipsMissingAudioFrame is spec.md §8 Scenario C: video
// ids 0-9, audio ids 0-9 with id 3 dropped. video[3] (id 3) must not
// be paired with audio's id-4 entry.
func TestCorrelateSkipsMissingAudioFrame(t *testing.T) {
	fp := pattern.PAL()
	var video []framecodec.VideoDetection
	for id := uint64(0); id < 10; id++ {
		video = append(video, framecodec.VideoDetection{VideoFrameIndex: id, FrameID: uint32(id), Confidence: 1})
	}
	var audio []framecodec.AudioDetection
	for _, id := range []uint64{0, 1, 2, 4, 5, 6, 7, 8, 9} {
		audio = append(audio, framecodec.AudioDetection{SamplePosition: id * 1000, FrameID: uint32(id), Confidence: 1})
	}

	report := Correlate(video, audio, fp)
	require.Equal(t, 9, report.MatchCount)

	var ids []uint32
	for _, m := range report.Matches {
		ids = append(ids, m.FrameID)
	}
	require.Equal(t, []uint32{0, 1, 2, 4, 5, 6, 7, 8, 9}, ids)
	require.NotContains(t, ids, uint32(3))
}

// TestCorrelateDisambiguatesRepeatedIdsAcrossCycles exercises spec.md
// §4.5's rationale directly: repeated ids across two cycles must pair
// the k-th occurrence in video with the k-th occurrence in audio, not
// every occurrence with every occurrence.
func TestCorrelateDisambiguatesRepeatedIdsAcrossCycles(t *testing.T) {
	fp := pattern.PAL()
	video := []framecodec.VideoDetection{
		{VideoFrameIndex: 0, FrameID: 0, Confidence: 1},
		{VideoFrameIndex: 1, FrameID: 1, Confidence: 1},
		{VideoFrameIndex: 100, FrameID: 0, Confidence: 1},
		{VideoFrameIndex: 101, FrameID: 1, Confidence: 1},
	}
	audio := []framecodec.AudioDetection{
		{SamplePosition: 0, FrameID: 0, Confidence: 1},
		{SamplePosition: 1920, FrameID: 1, Confidence: 1},
		{SamplePosition: 192000, FrameID: 0, Confidence: 1},
		{SamplePosition: 193920, FrameID: 1, Confidence: 1},
	}

	report := Correlate(video, audio, fp)
	require.Equal(t, 4, report.MatchCount)

	var videoTimes []float64
	for _, m := range report.Matches {
		videoTimes = append(videoTimes, m.VideoTimeSeconds)
	}
	require.True(t, videoTimes[0] <= videoTimes[1] && videoTimes[1] <= videoTimes[2] && videoTimes[2] <= videoTimes[3])
}

func TestCorrelateEmptyInputsProduceZeroReport(t *testing.T) {
	report := Correlate(nil, nil, pattern.PAL())
	require.Equal(t, 0, report.MatchCount)
	require.Empty(t, report.Matches)
}

func TestTrimOutliersRemovesFarMatch(t *testing.T) {
	// One point among n can lie at most (n-1)/sqrt(n) standard
	// deviations from the mean, so at least 11 points are needed for an
	// outlier to exceed 3 sigma; use 20 inliers.
	inliers := []float64{0.001, 0.0012, 0.0009, 0.0011}
	var matches []OffsetMatch
	for i := 0; i < 20; i++ {
		matches = append(matches, OffsetMatch{FrameID: uint32(i), OffsetSeconds: inliers[i%len(inliers)], Confidence: 1})
	}
	matches = append(matches, OffsetMatch{FrameID: 20, OffsetSeconds: 5.0, Confidence: 1}) // gross outlier
	report := buildReport(matches)
	trimmed := TrimOutliers(report)

	require.Equal(t, 1, trimmed.OutliersTrimmed)
	require.Equal(t, 20, trimmed.MatchCount)
	require.Less(t, trimmed.StdDevSeconds, report.StdDevSeconds)
}

func TestOffsetReportJSONFieldNames(t *testing.T) {
	report := buildReport([]OffsetMatch{{FrameID: 1, OffsetSeconds: 0.5, Confidence: 0.9}})
	b, err := json.Marshal(report)
	require.NoError(t, err)

	s := string(b)
	for _, field := range []string{
		`"mean_offset_seconds"`, `"std_dev_seconds"`, `"min_offset_seconds"`,
		`"max_offset_seconds"`, `"match_count"`, `"mean_confidence"`, `"matches"`,
		`"frame_id"`, `"video_time_seconds"`, `"audio_time_seconds"`, `"offset_seconds"`,
	} {
		require.Contains(t, s, field)
	}
}
