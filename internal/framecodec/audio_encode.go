package framecodec

import (
	"github.com/marshalleq/vhstimecode/internal/bitcodec"
	"github.com/marshalleq/vhstimecode/internal/dsp"
)

// EncodeFrameAudio renders one video frame's worth of FSK-encoded audio
// for record, at sampleRate, given the exact samples-per-frame for the
// active FormatParameters. startPhase carries the oscillator phase
// across frame boundaries within a contiguous section (spec.md §4.2).
// The returned block has exactly round(samplesPerFrameExact) samples.
func EncodeFrameAudio(record FrameRecord, sampleRate int, samplesPerFrameExact float64, startPhase float64) (samples []float32, endPhase float64) {
	bits := bitsMSBFirst(record)
	samplesPerBitExact := samplesPerFrameExact / 32

	blockSamples := dsp.RoundFrameStart(32, samplesPerBitExact)
	samples = make([]float32, 0, blockSamples)

	phase := startPhase
	var prevBitEnd int64
	for i := 0; i < 32; i++ {
		bitEnd := dsp.RoundFrameStart(int64(i+1), samplesPerBitExact)
		n := int(bitEnd - prevBitEnd)
		prevBitEnd = bitEnd

		bitSamples, newPhase := bitcodec.EncodeBit(bits[i], n, sampleRate, phase)
		phase = newPhase
		samples = append(samples, bitSamples...)
	}
	return samples, phase
}
