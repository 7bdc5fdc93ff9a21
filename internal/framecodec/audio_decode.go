package framecodec

import (
	"sort"

	"github.com/marshalleq/vhstimecode/internal/bitcodec"
	"github.com/marshalleq/vhstimecode/internal/dsp"
)

// decodeFrameBits decodes the 32 consecutive bit blocks starting at
// the beginning of block (one bit codec call per bit, per spec.md
// §4.2's strict mode), using exact rational bit boundaries derived
// from samplesPerFrameExact. Returns false if any bit failed to
// decode or the checksum did not validate.
func decodeFrameBits(block []float32, sampleRate int, samplesPerFrameExact float64) (FrameRecord, float64, bool) {
	samplesPerBitExact := samplesPerFrameExact / 32

	var bits [32]bitcodec.Symbol
	var confidenceSum float64
	var prevEnd int64
	for i := 0; i < 32; i++ {
		end := dsp.RoundFrameStart(int64(i+1), samplesPerBitExact)
		if int(end) > len(block) || end <= prevEnd {
			return FrameRecord{}, 0, false
		}
		decoded := bitcodec.DecodeBit(block[prevEnd:end], sampleRate)
		prevEnd = end
		if decoded == nil {
			return FrameRecord{}, 0, false
		}
		bits[i] = decoded.Symbol
		confidenceSum += decoded.Confidence
	}

	record := frameFromBits(bits)
	if !record.Valid() {
		return FrameRecord{}, 0, false
	}
	return record, confidenceSum / 32, true
}

// DecodeAudioSection decodes a contiguous audio range believed to
// correspond to one Timecode phase into a sequence of checksum-valid
// frame detections. sectionStartSample is the absolute sample
// position of samples[0], so returned SamplePosition values are
// absolute. Mode selects strict (frame-exact grid only) or tolerant
// (grid plus a sliding family of offsets, spec.md §4.2) decoding.
func DecodeAudioSection(samples []float32, sectionStartSample uint64, sampleRate int, samplesPerFrameExact float64, mode Mode) []AudioDetection {
	strict := decodeStrictGrid(samples, sectionStartSample, sampleRate, samplesPerFrameExact)
	if mode == ModeStrict {
		return strict
	}

	sliding := decodeSlidingOffsets(samples, sectionStartSample, sampleRate, samplesPerFrameExact)
	all := append(strict, sliding...)
	return mergeDuplicates(all, samplesPerFrameExact)
}

// decodeStrictGrid walks frame index k = 0, 1, 2, ... using exact
// rational frame boundaries from the section origin.
func decodeStrictGrid(samples []float32, sectionStartSample uint64, sampleRate int, samplesPerFrameExact float64) []AudioDetection {
	var detections []AudioDetection
	for k := int64(0); ; k++ {
		start := dsp.RoundFrameStart(k, samplesPerFrameExact)
		end := dsp.RoundFrameStart(k+1, samplesPerFrameExact)
		if end > int64(len(samples)) {
			break
		}
		record, confidence, ok := decodeFrameBits(samples[start:end], sampleRate, samplesPerFrameExact)
		if !ok {
			continue
		}
		detections = append(detections, AudioDetection{
			SamplePosition: sectionStartSample + uint64(start),
			FrameID:        record.FrameID,
			Confidence:     confidence,
		})
	}
	return detections
}

// slidingStepDivisor is spec.md §4.2's sliding-window step divisor:
// step = bit_samples / 8.
const slidingStepDivisor = 8

// decodeSlidingOffsets evaluates a sliding family of offsets at
// step = bit_samples/8, recovering bits that exact boundaries would
// straddle under VHS mechanical jitter.
func decodeSlidingOffsets(samples []float32, sectionStartSample uint64, sampleRate int, samplesPerFrameExact float64) []AudioDetection {
	frameLen := int(dsp.RoundFrameStart(1, samplesPerFrameExact))
	if frameLen <= 0 || frameLen > len(samples) {
		return nil
	}
	bitSamplesExact := samplesPerFrameExact / 32
	step := int(bitSamplesExact/slidingStepDivisor + 0.5)
	if step < 1 {
		step = 1
	}

	var detections []AudioDetection
	for offset := 0; offset+frameLen <= len(samples); offset += step {
		record, confidence, ok := decodeFrameBits(samples[offset:offset+frameLen], sampleRate, samplesPerFrameExact)
		if !ok {
			continue
		}
		detections = append(detections, AudioDetection{
			SamplePosition: sectionStartSample + uint64(offset),
			FrameID:        record.FrameID,
			Confidence:     confidence,
		})
	}
	return detections
}

// mergeDuplicates collapses detections that share a frame_id and whose
// sample positions fall within one frame-length of each other, keeping
// the highest-confidence one (spec.md §4.2).
func mergeDuplicates(detections []AudioDetection, samplesPerFrameExact float64) []AudioDetection {
	if len(detections) == 0 {
		return nil
	}
	frameLen := uint64(samplesPerFrameExact + 0.5)

	sort.Slice(detections, func(i, j int) bool {
		if detections[i].FrameID != detections[j].FrameID {
			return detections[i].FrameID < detections[j].FrameID
		}
		return detections[i].SamplePosition < detections[j].SamplePosition
	})

	var merged []AudioDetection
	for _, d := range detections {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.FrameID == d.FrameID && withinOneFrame(last.SamplePosition, d.SamplePosition, frameLen) {
				if d.Confidence > last.Confidence {
					*last = d
				}
				continue
			}
		}
		merged = append(merged, d)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].SamplePosition < merged[j].SamplePosition })
	return merged
}

func withinOneFrame(a, b, frameLen uint64) bool {
	var diff uint64
	if a > b {
		diff = a - b
	} else {
		diff = b - a
	}
	return diff <= frameLen
}
