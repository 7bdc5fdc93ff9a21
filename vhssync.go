// Package vhssync is the stable public surface over the VHS timecode
// codec and sync-offset correlator. All behaviour lives in internal/*
// so it can be unit-tested at the package level; the functions here
// are thin, allocation-free wrappers exposing that behaviour as a
// single coherent API, the same shape the teacher's internal packages
// are wrapped by its own top-level entry points.
package vhssync

import (
	"github.com/marshalleq/vhstimecode/internal/correlator"
	"github.com/marshalleq/vhstimecode/internal/errs"
	"github.com/marshalleq/vhstimecode/internal/framecodec"
	"github.com/marshalleq/vhstimecode/internal/locker"
	"github.com/marshalleq/vhstimecode/internal/pattern"
)

// GenerateCycle renders one full TestChart/PreSilence/Timecode/
// PostSilence cycle, delivering audio samples and video frames to
// audioOut/videoFrameOut as they are produced.
func GenerateCycle(fp pattern.FormatParameters, cycleIndex uint64,
	audioOut func(samples []float32), videoFrameOut func(frame *framecodec.VideoFrame)) error {
	return pattern.GenerateCycle(fp, cycleIndex, audioOut, videoFrameOut)
}

// LockCycles finds the Timecode-phase boundaries of every generator
// cycle present in audio, eliminating the TestChart and silence phases
// as sources of false positives before frame decoding runs.
func LockCycles(audio []float32, fp pattern.FormatParameters, hint locker.Hint) ([]locker.LockedRegion, *errs.Diagnostic) {
	return locker.LockCycles(audio, fp, hint)
}

// DecodeAudioTimecodes decodes frame records from an audio section,
// treating sample 0 of audio as sectionStartSample in absolute terms.
func DecodeAudioTimecodes(audio []float32, sectionStartSample uint64, fp pattern.FormatParameters, mode framecodec.Mode) []framecodec.AudioDetection {
	return framecodec.DecodeAudioSection(audio, sectionStartSample, fp.AudioSampleRate, fp.SamplesPerFrameExact(), mode)
}

// DecodeVideoTimecodes decodes frame records from a sequence of video
// frames, treating frames[0] as firstFrameIndex in absolute terms.
func DecodeVideoTimecodes(frames []*framecodec.VideoFrame, firstFrameIndex uint64) []framecodec.VideoDetection {
	return framecodec.DecodeVideoTimecodes(frames, firstFrameIndex)
}

// Correlate pairs video and audio frame-record detections by frame id
// and reports an offset estimate with confidence statistics.
func Correlate(video []framecodec.VideoDetection, audio []framecodec.AudioDetection, fp pattern.FormatParameters) correlator.OffsetReport {
	return correlator.Correlate(video, audio, fp)
}
