// Package locker implements the Cycle Locker: given an arbitrary
// captured audio stream believed to contain one or more generator
// cycles, it finds the sample/frame ranges of each cycle's Timecode
// phase, eliminating the TestChart tone and silence phases as sources
// of false positives for the frame codec decoders (spec.md §4.4).
package locker

import (
	"github.com/marshalleq/vhstimecode/internal/dsp"
	"github.com/marshalleq/vhstimecode/internal/errs"
	"github.com/marshalleq/vhstimecode/internal/pattern"
)

// LockedRegion identifies one cycle's Timecode-phase boundaries, both
// in video frames and in audio samples (spec.md §3). Frame/sample
// positions are absolute, relative to the start of the audio/frame
// sequence passed to LockCycles.
type LockedRegion struct {
	VideoFrameStart         uint64
	VideoFrameEndExclusive  uint64
	AudioSampleStart        uint64
	AudioSampleEndExclusive uint64
}

// Hint carries caller knowledge that narrows the search (spec.md
// §4.4's "optional hint that the first cycle starts at sample 0").
type Hint struct {
	FirstCycleAtSampleZero bool
}

// highThresholdInt16 and lowThresholdInt16 are spec.md §4.4's RMS
// classification thresholds, expressed on an int16-equivalent scale
// (±32768) even though samples here are float32 in [-1,1].
const (
	highThresholdInt16 = 1000.0
	lowThresholdInt16  = 100.0
	int16FullScale     = 32768.0
)

// windowClass is one window's energy classification (spec.md §4.4
// step 2).
type windowClass int

const (
	classAmbiguous windowClass = iota
	classHigh
	classLow
)

func classifyRMS(rms float64) windowClass {
	scaled := rms * int16FullScale
	switch {
	case scaled > highThresholdInt16:
		return classHigh
	case scaled < lowThresholdInt16:
		return classLow
	default:
		return classAmbiguous
	}
}

// LockCycles implements spec.md §4.4's detection algorithm: a short-
// term RMS envelope at window=hop=samples_per_frame_exact/4,
// High/Low/Ambiguous classification, High-run-then-Low-run candidate
// detection, and frame-exact Timecode-phase boundary derivation and
// validation for every candidate. Returns an empty slice and a
// NoSignal diagnostic if no cycle validates — spec.md §4.4's documented
// failure mode, not a panic or a MalformedInput error.
func LockCycles(audio []float32, fp pattern.FormatParameters, hint Hint) ([]LockedRegion, *errs.Diagnostic) {
	if len(audio) == 0 {
		return nil, errs.New(errs.NoSignal, "LockCycles: empty audio buffer")
	}

	spfe := fp.SamplesPerFrameExact()
	windowSamples := int(dsp.RoundFrameStart(1, spfe/4))
	if windowSamples <= 0 {
		return nil, errs.New(errs.MalformedInput, "LockCycles: samples-per-frame too small to window")
	}

	classes := classifyEnvelope(audio, windowSamples)

	requiredHigh := maxInt(1, int(0.8*framesToWindows(fp.Phases.TestChartFrames, spfe, windowSamples)))
	requiredLow := maxInt(1, int(0.5*framesToWindows(fp.Phases.PreSilenceFrames, spfe, windowSamples)))

	var regions []LockedRegion
	seen := make(map[int64]bool)

	if hint.FirstCycleAtSampleZero {
		if region, ok := validateCycleAt(audio, fp, spfe, 0, 0); ok {
			regions = append(regions, region)
			seen[0] = true
		}
	}

	for _, windowIdx := range findCandidateStarts(classes, requiredHigh, requiredLow) {
		sCycleApprox := int64(windowIdx) * int64(windowSamples)
		fCycle := dsp.RoundFrameStart(1, float64(sCycleApprox)/spfe)
		if seen[fCycle] {
			continue
		}
		sCycle := dsp.RoundFrameStart(fCycle, spfe)
		if region, ok := validateCycleAt(audio, fp, spfe, fCycle, sCycle); ok {
			regions = append(regions, region)
			seen[fCycle] = true
		}
	}

	if len(regions) == 0 {
		return nil, errs.New(errs.NoSignal, "LockCycles: no candidate cycle validated").
			With("window_count", len(classes)).
			With("required_high_windows", requiredHigh).
			With("required_low_windows", requiredLow)
	}
	return regions, nil
}

// validateCycleAt derives the Timecode phase boundaries for a
// candidate cycle start (fCycle, sCycle) per spec.md §4.4's "frame-
// exact boundary derivation", then validates that the Timecode range
// is non-Low (FSK present) and the following PostSilence range is Low.
func validateCycleAt(audio []float32, fp pattern.FormatParameters, spfe float64, fCycle, sCycle int64) (LockedRegion, bool) {
	phases := fp.Phases
	preTimecodeFrames := int64(phases.TestChartFrames + phases.PreSilenceFrames)
	timecodeFrames := int64(phases.TimecodeFrames)
	postSilenceFrames := int64(phases.PostSilenceFrames)

	fTimecodeStart := fCycle + preTimecodeFrames
	fTimecodeEnd := fTimecodeStart + timecodeFrames

	sTimecodeStart := sCycle + dsp.RoundFrameStart(preTimecodeFrames, spfe)
	sTimecodeEnd := sCycle + dsp.RoundFrameStart(preTimecodeFrames+timecodeFrames, spfe)
	sPostSilenceEnd := sCycle + dsp.RoundFrameStart(preTimecodeFrames+timecodeFrames+postSilenceFrames, spfe)

	if fCycle < 0 || sTimecodeStart < 0 || sTimecodeEnd > int64(len(audio)) || sTimecodeEnd <= sTimecodeStart {
		return LockedRegion{}, false
	}

	if isLow(audio, sTimecodeStart, sTimecodeEnd) {
		return LockedRegion{}, false
	}

	postEnd := sPostSilenceEnd
	if postEnd > int64(len(audio)) {
		postEnd = int64(len(audio))
	}
	if postEnd > sTimecodeEnd && !isLow(audio, sTimecodeEnd, postEnd) {
		return LockedRegion{}, false
	}

	return LockedRegion{
		VideoFrameStart:         uint64(fTimecodeStart),
		VideoFrameEndExclusive:  uint64(fTimecodeEnd),
		AudioSampleStart:        uint64(sTimecodeStart),
		AudioSampleEndExclusive: uint64(sTimecodeEnd),
	}, true
}

func isLow(audio []float32, start, end int64) bool {
	rms := dsp.RMS(audio[start:end])
	return rms*int16FullScale < lowThresholdInt16
}

func framesToWindows(frames int, spfe float64, windowSamples int) float64 {
	return float64(frames) * spfe / float64(windowSamples)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
