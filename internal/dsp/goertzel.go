package dsp

import "math"

// GoertzelMagnitude returns the magnitude of the Goertzel filter's
// response to targetHz over the given sample block, at sampleRate.
// This is numerically equivalent to reading a single FFT bin at
// targetHz, at a fraction of the cost for the short (~60-sample) bit
// windows this codec uses (spec.md §9's design note).
func GoertzelMagnitude(samples []float32, sampleRate int, targetHz float64) float64 {
	n := len(samples)
	if n == 0 || sampleRate <= 0 {
		return 0
	}

	k := float64(n) * targetHz / float64(sampleRate)
	omega := 2 * math.Pi * k / float64(n)
	coeff := 2 * math.Cos(omega)

	var s0, s1, s2 float64
	for _, x := range samples {
		s0 = float64(x) + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}

	real := s1 - s2*math.Cos(omega)
	imag := s2 * math.Sin(omega)
	return math.Hypot(real, imag)
}

// PeakFrequency scans candidate frequencies in [loHz, hiHz] at the
// given step and returns the frequency with the largest Goertzel
// magnitude, along with that magnitude and the sum of all magnitudes
// scanned.
func PeakFrequency(samples []float32, sampleRate int, loHz, hiHz, stepHz float64) (peakHz, peakMag, totalMag float64) {
	for hz := loHz; hz <= hiHz; hz += stepHz {
		mag := GoertzelMagnitude(samples, sampleRate, hz)
		totalMag += mag
		if mag > peakMag {
			peakMag = mag
			peakHz = hz
		}
	}
	return peakHz, peakMag, totalMag
}
