package pattern

import (
	"github.com/marshalleq/vhstimecode/internal/dsp"
	"github.com/marshalleq/vhstimecode/internal/errs"
	"github.com/marshalleq/vhstimecode/internal/framecodec"
)

// CyclePhase identifies one of the 4 phases of a generator cycle
// (spec.md §3).
type CyclePhase int

const (
	TestChart CyclePhase = iota
	PreSilence
	Timecode
	PostSilence
)

func (p CyclePhase) String() string {
	switch p {
	case TestChart:
		return "test_chart"
	case PreSilence:
		return "pre_silence"
	case Timecode:
		return "timecode"
	case PostSilence:
		return "post_silence"
	default:
		return "unknown"
	}
}

// testToneHz and testToneAmplitude are the TestChart phase's audio
// content (spec.md §4.3's table).
const (
	testToneHz        = 1000.0
	testToneAmplitude = 0.6
)

// VideoFrameOut receives one rendered video frame. AudioOut receives
// one video frame's worth of audio samples, in the same order the
// frames are emitted — callers that want a single interleaved stream
// concatenate AudioOut's slices themselves.
type VideoFrameOut func(frame *framecodec.VideoFrame)
type AudioOut func(samples []float32)

// GenerateCycle emits one full 4-phase cycle (spec.md §4.3):
// TestChart, PreSilence, Timecode, PostSilence, each frame-exact. Frame
// ids inside the Timecode phase run 0..N-1 from the phase start,
// regardless of cycleIndex, per spec.md §4.3 ("frames are numbered
// 0..N-1 from the phase start").
//
// GenerateCycle does not touch a file, clock, or network socket — it
// only calls audioOut and videoFrameOut, which the caller may wire to
// a muxer, a test buffer, or anything else (spec.md §4.3, §5).
//
// GenerateCycle is the nearest exported boundary around
// framecodec.NewFrameRecord's checksum self-check (spec.md §7): if
// that internal invariant ever panics — a bug, never reachable from
// valid FormatParameters — the deferred recover below converts it to
// a returned InternalInvariantViolation *errs.Diagnostic instead of
// crashing the caller.
func GenerateCycle(fp FormatParameters, cycleIndex uint64, audioOut AudioOut, videoFrameOut VideoFrameOut) (err error) {
	if audioOut == nil || videoFrameOut == nil {
		return errs.New(errs.MalformedInput, "GenerateCycle: audioOut and videoFrameOut must be non-nil")
	}
	if fp.Phases.TotalFrames() <= 0 {
		return errs.New(errs.MalformedInput, "GenerateCycle: phase lengths must sum to > 0")
	}

	defer func() {
		if r := recover(); r != nil {
			err = errs.Newf(errs.InternalInvariantViolation, "GenerateCycle: %v", r)
		}
	}()

	samplesPerFrameExact := fp.SamplesPerFrameExact()

	emitTestChart(fp, samplesPerFrameExact, audioOut, videoFrameOut)
	emitSilence(fp, fp.Phases.PreSilenceFrames, samplesPerFrameExact, audioOut, videoFrameOut)
	emitTimecode(fp, samplesPerFrameExact, audioOut, videoFrameOut)
	emitSilence(fp, fp.Phases.PostSilenceFrames, samplesPerFrameExact, audioOut, videoFrameOut)

	return nil
}

func emitTestChart(fp FormatParameters, samplesPerFrameExact float64, audioOut AudioOut, videoFrameOut VideoFrameOut) {
	phase := 0.0
	var prevEnd int64
	for k := 0; k < fp.Phases.TestChartFrames; k++ {
		end := dsp.RoundFrameStart(int64(k+1), samplesPerFrameExact)
		n := int(end - prevEnd)
		prevEnd = end

		samples, newPhase := renderTone(testToneHz, testToneAmplitude, n, fp.AudioSampleRate, phase)
		phase = newPhase
		audioOut(samples)
		videoFrameOut(testChartFrame(fp))
	}
}

func emitSilence(fp FormatParameters, frameCount int, samplesPerFrameExact float64, audioOut AudioOut, videoFrameOut VideoFrameOut) {
	var prevEnd int64
	for k := 0; k < frameCount; k++ {
		end := dsp.RoundFrameStart(int64(k+1), samplesPerFrameExact)
		n := int(end - prevEnd)
		prevEnd = end

		audioOut(make([]float32, n))
		videoFrameOut(framecodec.NewVideoFrame(fp.VideoWidth, fp.VideoHeight))
	}
}

func emitTimecode(fp FormatParameters, samplesPerFrameExact float64, audioOut AudioOut, videoFrameOut VideoFrameOut) {
	phase := 0.0
	var prevEnd int64
	for k := 0; k < fp.Phases.TimecodeFrames; k++ {
		end := dsp.RoundFrameStart(int64(k+1), samplesPerFrameExact)
		frameSamples := float64(end - prevEnd)
		prevEnd = end

		record := framecodec.NewFrameRecord(uint32(k))

		samples, newPhase := framecodec.EncodeFrameAudio(record, fp.AudioSampleRate, frameSamples, phase)
		phase = newPhase
		audioOut(samples)

		frame := framecodec.NewVideoFrame(fp.VideoWidth, fp.VideoHeight)
		framecodec.EncodeVisualStrip(frame, record)
		videoFrameOut(frame)
	}
}

// testChartFrame renders the fixed test chart image: a simple vertical
// grayscale ramp across the full frame, distinct from both the
// Timecode phase's dark field and the silence phases' solid black so a
// locker scanning luma alone can tell phases apart on sight.
func testChartFrame(fp FormatParameters) *framecodec.VideoFrame {
	frame := framecodec.NewVideoFrame(fp.VideoWidth, fp.VideoHeight)
	fillGrayscaleRamp(frame)
	return frame
}
