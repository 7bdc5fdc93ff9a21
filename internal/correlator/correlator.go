// Package correlator implements the sequential, non-exhaustive
// temporal correlator: given sorted video and audio frame-record
// detections, it pairs them by frame id in O(|V|+|A|) and reports an
// offset estimate with confidence statistics (spec.md §4.5).
package correlator

import (
	"sort"

	"github.com/marshalleq/vhstimecode/internal/framecodec"
	"github.com/marshalleq/vhstimecode/internal/pattern"
)

// OffsetMatch is one paired detection (spec.md §3). JSON field names
// match spec.md §6's serialisation section exactly.
type OffsetMatch struct {
	FrameID          uint32  `json:"frame_id"`
	VideoTimeSeconds float64 `json:"video_time_seconds"`
	AudioTimeSeconds float64 `json:"audio_time_seconds"`
	OffsetSeconds    float64 `json:"offset_seconds"`
	Confidence       float64 `json:"confidence"`
}

// OffsetReport is the correlator's final output (spec.md §3, §6).
type OffsetReport struct {
	MeanOffsetSeconds float64       `json:"mean_offset_seconds"`
	StdDevSeconds     float64       `json:"std_dev_seconds"`
	MinOffsetSeconds  float64       `json:"min_offset_seconds"`
	MaxOffsetSeconds  float64       `json:"max_offset_seconds"`
	MatchCount        int           `json:"match_count"`
	MeanConfidence    float64       `json:"mean_confidence"`
	Matches           []OffsetMatch `json:"matches"`
	// OutliersTrimmed is non-zero only on a report that has been
	// through TrimOutliers (spec.md §4.5's optional refinement pass).
	OutliersTrimmed int `json:"outliers_trimmed,omitempty"`
}

// Correlate implements spec.md §4.5's sequential matching algorithm.
// video and audio need not arrive pre-sorted — Correlate sorts copies
// by position before matching, since spec.md §4.5 states sortedness as
// an input precondition rather than something every caller can be
// trusted to uphold. Positive OffsetSeconds means audio lags video.
func Correlate(video []framecodec.VideoDetection, audio []framecodec.AudioDetection, fp pattern.FormatParameters) OffsetReport {
	v := sortedVideo(video)
	a := sortedAudio(audio)

	fpsFloat := fp.FPS.Float64()
	sampleRate := float64(fp.AudioSampleRate)

	var matches []OffsetMatch
	i, j := 0, 0
	for i < len(v) && j < len(a) {
		switch {
		case v[i].FrameID == a[j].FrameID:
			videoTime := float64(v[i].VideoFrameIndex) / fpsFloat
			audioTime := float64(a[j].SamplePosition) / sampleRate
			matches = append(matches, OffsetMatch{
				FrameID:          v[i].FrameID,
				VideoTimeSeconds: videoTime,
				AudioTimeSeconds: audioTime,
				OffsetSeconds:    audioTime - videoTime,
				Confidence:       minFloat(v[i].Confidence, a[j].Confidence),
			})
			i++
			j++
		case v[i].FrameID < a[j].FrameID:
			// video has an id audio missed; skip it.
			i++
		default:
			// audio has an id video missed; skip it.
			j++
		}
	}

	return buildReport(matches)
}

func sortedVideo(in []framecodec.VideoDetection) []framecodec.VideoDetection {
	out := make([]framecodec.VideoDetection, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i].VideoFrameIndex < out[j].VideoFrameIndex })
	return out
}

func sortedAudio(in []framecodec.AudioDetection) []framecodec.AudioDetection {
	out := make([]framecodec.AudioDetection, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i].SamplePosition < out[j].SamplePosition })
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
