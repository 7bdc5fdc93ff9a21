// Package bitcodec implements the single-bit FSK codec: encoding a
// logical bit to a fixed-length audio block, and recovering a bit (with
// confidence) from such a block by weighted vote across three
// independent analysis methods (spec.md §4.1).
package bitcodec

import (
	"math"

	"github.com/marshalleq/vhstimecode/internal/dsp"
)

// Symbol re-exports dsp.Symbol under the names spec.md's data model
// uses (BitSymbol ∈ {Zero, One}); dsp.SymbolNone is never a valid
// encode input, only a decode outcome.
type Symbol = dsp.Symbol

const (
	Zero = dsp.SymbolZero
	One  = dsp.SymbolOne
)

// amplitude is the fraction of full scale used for the encoded tone
// (spec.md §4.1: "Amplitude 0.6 of full scale").
const amplitude = 0.6

// fadeFraction is the fraction of the block windowed at each end to
// suppress transients (spec.md §4.1: "5% raised-cosine").
const fadeFraction = 0.05

// toneHz returns the carrier frequency for a symbol.
func toneHz(s Symbol) float64 {
	if s == Zero {
		return dsp.ZeroToneHz
	}
	return dsp.OneToneHz
}

// EncodeBit renders sampleCount samples of the tone for symbol, at
// sampleRate, continuing the oscillator phase from startPhase (radians)
// so consecutive bits (and consecutive frames) don't click at the
// boundary. It returns the samples and the phase to pass as
// startPhase for the next contiguous bit.
func EncodeBit(symbol Symbol, sampleCount int, sampleRate int, startPhase float64) (samples []float32, endPhase float64) {
	if sampleCount <= 0 {
		return nil, startPhase
	}
	hz := toneHz(symbol)
	omega := 2 * math.Pi * hz / float64(sampleRate)

	samples = make([]float32, sampleCount)
	phase := startPhase
	for i := 0; i < sampleCount; i++ {
		samples[i] = float32(amplitude * math.Sin(phase))
		phase += omega
	}
	endPhase = math.Mod(phase, 2*math.Pi)

	dsp.ApplyFadeWindow(samples, fadeFraction)
	return samples, endPhase
}
