package pattern

import "math"

// renderTone synthesises n samples of a fixed-frequency sine at the
// given amplitude, carrying oscillator phase across calls the same way
// bitcodec.EncodeBit does for its two tone frequencies (spec.md §4.1's
// phase-continuity rule, reused here for the TestChart phase's 1kHz
// tone rather than a bit tone).
func renderTone(freqHz, amplitude float64, n, sampleRate int, startPhase float64) (samples []float32, endPhase float64) {
	if n <= 0 {
		return nil, startPhase
	}
	samples = make([]float32, n)
	phaseStep := 2 * math.Pi * freqHz / float64(sampleRate)
	phase := startPhase
	for i := 0; i < n; i++ {
		samples[i] = float32(amplitude * math.Sin(phase))
		phase += phaseStep
	}
	return samples, math.Mod(phase, 2*math.Pi)
}
