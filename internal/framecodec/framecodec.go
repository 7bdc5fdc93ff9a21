// Package framecodec wraps internal/bitcodec to serialise and parse a
// 32-bit frame record (24-bit id + 8-bit checksum) per video frame, in
// both FSK-audio and visual-binary-strip form (spec.md §4.2).
package framecodec

import (
	"fmt"

	"github.com/marshalleq/vhstimecode/internal/bitcodec"
	"github.com/marshalleq/vhstimecode/internal/dsp"
)

// FrameRecord is the atomic payload: a 24-bit frame id plus its 8-bit
// checksum (spec.md §3). Never mutated after construction.
type FrameRecord struct {
	FrameID  uint32
	Checksum uint8
}

// NewFrameRecord constructs a FrameRecord, computing its checksum.
// frameID must fit in 24 bits (0..16_777_215); higher bits are masked.
func NewFrameRecord(frameID uint32) FrameRecord {
	id := frameID & 0xFFFFFF
	record := FrameRecord{FrameID: id, Checksum: dsp.ComputeChecksum(id)}
	selfCheckFreshRecord(record)
	return record
}

// selfCheckFreshRecord panics if a record this package itself just
// computed a checksum for fails its own validation — the checksum
// disagreeing with itself is an internal bug (e.g. ComputeChecksum and
// ValidChecksum drifting out of sync), never something reachable from
// caller input, since frameID is masked to 24 bits above. Callers that
// wrap generation (e.g. internal/pattern.GenerateCycle) recover this
// at their own exported boundary and report it as an
// InternalInvariantViolation *errs.Diagnostic rather than let it crash
// the process.
func selfCheckFreshRecord(record FrameRecord) {
	if !record.Valid() {
		panic(fmt.Sprintf("framecodec: checksum for frame id %d disagrees with itself: got %d", record.FrameID, record.Checksum))
	}
}

// Valid reports whether the record's checksum matches its frame id.
func (f FrameRecord) Valid() bool {
	return dsp.ValidChecksum(f.FrameID, f.Checksum)
}

// bitsMSBFirst returns the 32 logical bits of a FrameRecord, MSB of
// the frame id first, then the MSB of the checksum (spec.md §6's
// on-wire bit order).
func bitsMSBFirst(f FrameRecord) [32]bitcodec.Symbol {
	var bits [32]bitcodec.Symbol
	for i := 0; i < 24; i++ {
		bits[i] = symbolForBit((f.FrameID >> (23 - i)) & 1)
	}
	for i := 0; i < 8; i++ {
		bits[24+i] = symbolForBit((uint32(f.Checksum) >> (7 - i)) & 1)
	}
	return bits
}

// frameFromBits reconstructs a FrameRecord from 32 decoded bits in
// MSB-first order, without validating the checksum — callers check
// Valid() themselves.
func frameFromBits(bits [32]bitcodec.Symbol) FrameRecord {
	var id uint32
	for i := 0; i < 24; i++ {
		id = (id << 1) | bitValue(bits[i])
	}
	var cs uint8
	for i := 0; i < 8; i++ {
		cs = (cs << 1) | uint8(bitValue(bits[24+i]))
	}
	return FrameRecord{FrameID: id, Checksum: cs}
}

func symbolForBit(bit uint32) bitcodec.Symbol {
	if bit == 1 {
		return bitcodec.One
	}
	return bitcodec.Zero
}

func bitValue(s bitcodec.Symbol) uint32 {
	if s == bitcodec.One {
		return 1
	}
	return 0
}

// Mode selects the audio decode strategy (spec.md §4.2).
type Mode int

const (
	// ModeStrict assumes frame-perfect, exact rational bit boundaries
	// (generator self-test / re-validation of a just-generated file).
	ModeStrict Mode = iota
	// ModeTolerant additionally evaluates a sliding family of offsets
	// to recover bits from VHS mechanical timing jitter.
	ModeTolerant
)

// AudioDetection is one successful audio decode of a frame record
// (spec.md §3).
type AudioDetection struct {
	SamplePosition uint64
	FrameID        uint32
	Confidence     float64
}

// VideoDetection is one successful video decode of a frame record
// (spec.md §3).
type VideoDetection struct {
	VideoFrameIndex uint64
	FrameID         uint32
	Confidence      float64
}
