// Package pattern generates the synchronised audio+video test stream:
// a repeating 4-phase cycle (TestChart, PreSilence, Timecode,
// PostSilence) whose Timecode phase carries the frame records the rest
// of the module decodes (spec.md §4.3).
package pattern

import "github.com/marshalleq/vhstimecode/internal/dsp"

// FormatParameters is the immutable configuration shared by the
// generator, locker, and correlator (spec.md §3). Constructed only via
// PAL/NTSC, never a bare struct literal at call sites, mirroring the
// teacher's constructor-function convention for long-lived
// configuration values.
type FormatParameters struct {
	FPS             dsp.Rational
	VideoWidth      int
	VideoHeight     int
	AudioSampleRate int
	Phases          PhaseLengths
}

// SamplesPerFrameExact derives sample_rate/fps fresh every call — it is
// never cached as a rounded integer (spec.md §4.3, §9).
func (fp FormatParameters) SamplesPerFrameExact() float64 {
	return dsp.SamplesPerFrameExact(fp.AudioSampleRate, fp.FPS)
}

// PhaseLengths is the frame-count duration of each of the 4 cycle
// phases (spec.md §3's CyclePhase, §4.3's table).
type PhaseLengths struct {
	TestChartFrames   int
	PreSilenceFrames  int
	TimecodeFrames    int
	PostSilenceFrames int
}

// TotalFrames is the full cycle length in video frames.
func (p PhaseLengths) TotalFrames() int {
	return p.TestChartFrames + p.PreSilenceFrames + p.TimecodeFrames + p.PostSilenceFrames
}

// defaultPALPhases is spec.md §4.3's default PAL phase lengths: 75 /
// 25 / 750 / 25 frames (35.00s at 25fps).
var defaultPALPhases = PhaseLengths{
	TestChartFrames:   75,
	PreSilenceFrames:  25,
	TimecodeFrames:    750,
	PostSilenceFrames: 25,
}

// defaultPhasesForFPS rounds the PAL phase lengths' wall-clock
// durations to the nearest frame count at fps, per spec.md §4.3 ("For
// NTSC, use the same wall-clock durations and round frames to
// nearest").
func defaultPhasesForFPS(fps dsp.Rational) PhaseLengths {
	palSeconds := float64(defaultPALPhases.TestChartFrames) / dsp.PALFPS.Float64()
	preSeconds := float64(defaultPALPhases.PreSilenceFrames) / dsp.PALFPS.Float64()
	tcSeconds := float64(defaultPALPhases.TimecodeFrames) / dsp.PALFPS.Float64()
	postSeconds := float64(defaultPALPhases.PostSilenceFrames) / dsp.PALFPS.Float64()

	f := fps.Float64()
	return PhaseLengths{
		TestChartFrames:   roundNearest(palSeconds * f),
		PreSilenceFrames:  roundNearest(preSeconds * f),
		TimecodeFrames:    roundNearest(tcSeconds * f),
		PostSilenceFrames: roundNearest(postSeconds * f),
	}
}

func roundNearest(x float64) int {
	return int(dsp.RoundFrameStart(1, x))
}

// PAL returns the default PAL FormatParameters: 25/1 fps, 720x576,
// 48kHz audio, default phase lengths.
func PAL() FormatParameters {
	return FormatParameters{
		FPS:             dsp.PALFPS,
		VideoWidth:      720,
		VideoHeight:     576,
		AudioSampleRate: 48000,
		Phases:          defaultPALPhases,
	}
}

// NTSC returns the default NTSC FormatParameters: 30000/1001 fps,
// 720x480, 48kHz audio, phase lengths rounded to the same wall-clock
// durations as PAL.
func NTSC() FormatParameters {
	fps := dsp.NTSCFPS
	return FormatParameters{
		FPS:             fps,
		VideoWidth:      720,
		VideoHeight:     480,
		AudioSampleRate: 48000,
		Phases:          defaultPhasesForFPS(fps),
	}
}
