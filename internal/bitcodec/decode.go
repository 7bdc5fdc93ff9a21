package bitcodec

import (
	"github.com/marshalleq/vhstimecode/internal/dsp"
)

// DecodedBit is the outcome of a successful bit decode: a classified
// symbol and the voting confidence behind it (spec.md §3).
type DecodedBit struct {
	Symbol     Symbol
	Confidence float64
}

// method identifies one of the three independent analyses.
type method int

const (
	methodFFT method = iota
	methodZCR
	methodAutocorr
)

// weight is this method's fixed vote weight (spec.md §4.1: FFT=2.0,
// ZCR=1.0, Autocorr=1.0).
func (m method) weight() float64 {
	switch m {
	case methodFFT:
		return 2.0
	default:
		return 1.0
	}
}

// vote is one method's classification of a bit block, or a no-decision.
type vote struct {
	method     method
	symbol     Symbol
	confidence float64
	decided    bool
}

// goertzelScanStepHz is the frequency resolution of the FFT-equivalent
// peak search across the combined Zero/One band.
const goertzelScanStepHz = 10.0

// fftVote implements spec.md §4.1's FFT method via a Goertzel scan (see
// dsp.PeakFrequency): locate the peak frequency across the combined
// Zero/One band, classify it, and derive confidence from the peak's
// energy relative to the total energy inside the Zero and One bands.
func fftVote(samples []float32, sampleRate int) vote {
	peakHz, peakMag, _ := dsp.PeakFrequency(samples, sampleRate, dsp.ZeroFreqLow, dsp.OneFreqHigh, goertzelScanStepHz)
	symbol := dsp.ClassifyFrequency(peakHz)
	if symbol == dsp.SymbolNone {
		return vote{method: methodFFT}
	}
	// Band energy: squared magnitudes over the Zero and One ranges,
	// rescaled from the scan step to the block's bin width
	// (sampleRate/len) so a pure in-band tone scores close to 1.
	var bandEnergy float64
	for hz := dsp.ZeroFreqLow; hz <= dsp.OneFreqHigh; hz += goertzelScanStepHz {
		if dsp.ClassifyFrequency(hz) != dsp.SymbolNone {
			m := dsp.GoertzelMagnitude(samples, sampleRate, hz)
			bandEnergy += m * m
		}
	}
	bandEnergy *= goertzelScanStepHz * float64(len(samples)) / float64(sampleRate)
	if bandEnergy == 0 {
		return vote{method: methodFFT}
	}
	confidence := peakMag * peakMag / bandEnergy
	return vote{method: methodFFT, symbol: symbol, confidence: clamp01(confidence), decided: true}
}

// zcrVote implements spec.md §4.1's zero-crossing-rate method.
func zcrVote(samples []float32, sampleRate int) vote {
	_, hz := dsp.ZeroCrossingRate(samples, sampleRate)
	symbol := dsp.ClassifyFrequency(hz)
	if symbol == dsp.SymbolNone {
		return vote{method: methodZCR}
	}
	nominal := toneHz(symbol)
	confidence := 1 - absf(hz-nominal)/(nominal*0.5)
	if confidence < 0 {
		confidence = 0
	}
	return vote{method: methodZCR, symbol: symbol, confidence: confidence, decided: true}
}

// autocorrVote implements spec.md §4.1's autocorrelation method.
func autocorrVote(samples []float32, sampleRate int) vote {
	lag, peak, sidelobe := dsp.AutocorrelationPeak(samples, sampleRate, 500, 2000)
	if lag == 0 {
		return vote{method: methodAutocorr}
	}
	hz := float64(sampleRate) / float64(lag)
	symbol := dsp.ClassifyFrequency(hz)
	if symbol == dsp.SymbolNone {
		return vote{method: methodAutocorr}
	}
	// Peak-to-sidelobe ratio normalised into [0,1): a ratio of 1 (no
	// discrimination) maps to 0.5, growing toward 1 as the sidelobe
	// shrinks relative to the peak.
	ratio := 1.0
	if sidelobe > 0 {
		ratio = peak / sidelobe
	} else if peak > 0 {
		ratio = 1000 // no measurable sidelobe: treat as maximally confident
	}
	confidence := clamp01(ratio / (ratio + 1))
	return vote{method: methodAutocorr, symbol: symbol, confidence: confidence, decided: true}
}

// DecodeBit runs the three independent analyses and combines them by
// weighted vote (spec.md §4.1's voting rule). Returns nil if zero
// methods produced a decision — a normal outcome, never an error.
func DecodeBit(samples []float32, sampleRate int) *DecodedBit {
	votes := []vote{
		fftVote(samples, sampleRate),
		zcrVote(samples, sampleRate),
		autocorrVote(samples, sampleRate),
	}
	return combineVotes(votes)
}

// combineVotes implements the weighted-vote combiner: discard
// no-decisions, sum weights per symbol, the larger total wins, ties
// broken by the single highest-confidence decision, and the returned
// confidence is the weight-weighted mean of the winning methods'
// confidences.
func combineVotes(votes []vote) *DecodedBit {
	weightZero, weightOne := 0.0, 0.0
	var decided []vote
	for _, v := range votes {
		if !v.decided {
			continue
		}
		decided = append(decided, v)
		if v.symbol == dsp.SymbolZero {
			weightZero += v.method.weight()
		} else {
			weightOne += v.method.weight()
		}
	}
	if len(decided) == 0 {
		return nil
	}

	var winner Symbol
	switch {
	case weightZero > weightOne:
		winner = dsp.SymbolZero
	case weightOne > weightZero:
		winner = dsp.SymbolOne
	default:
		// Exact tie: the single method with the highest confidence
		// decides, per spec.md §4.1 rule 4.
		best := decided[0]
		for _, v := range decided[1:] {
			if v.confidence > best.confidence {
				best = v
			}
		}
		winner = best.symbol
	}

	var weightedConfidence, totalWeight float64
	for _, v := range decided {
		if v.symbol != winner {
			continue
		}
		w := v.method.weight()
		weightedConfidence += w * v.confidence
		totalWeight += w
	}
	if totalWeight == 0 {
		return nil
	}

	return &DecodedBit{Symbol: winner, Confidence: weightedConfidence / totalWeight}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
