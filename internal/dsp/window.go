package dsp

import "math"

// ApplyFadeWindow applies a raised-cosine fade-in and fade-out to the
// first and last fadeFraction of samples, in place. The interior is
// left unwindowed to preserve frequency purity (spec.md §4.1). A
// fadeFraction of 0.05 matches the 5% the bit codec uses.
func ApplyFadeWindow(samples []float32, fadeFraction float64) {
	n := len(samples)
	if n == 0 || fadeFraction <= 0 {
		return
	}
	fadeLen := int(float64(n) * fadeFraction)
	if fadeLen <= 0 {
		return
	}
	if fadeLen*2 > n {
		fadeLen = n / 2
	}
	for i := 0; i < fadeLen; i++ {
		// raised cosine: 0 -> 1 over [0, fadeLen)
		gain := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(fadeLen)))
		samples[i] *= float32(gain)
		samples[n-1-i] *= float32(gain)
	}
}

// RMS computes the root-mean-square amplitude of a sample block.
// Grounded on internal/bpm.detectBPM's per-window energy loop.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// ZeroCrossingRate counts sign changes in the block and converts the
// count to an estimated frequency, per spec.md §4.1's ZCR method:
// freq = (crossings * sampleRate) / (2 * sampleCount).
func ZeroCrossingRate(samples []float32, sampleRate int) (crossings int, estimatedHz float64) {
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	if len(samples) == 0 {
		return 0, 0
	}
	estimatedHz = float64(crossings) * float64(sampleRate) / (2 * float64(len(samples)))
	return crossings, estimatedHz
}

// AutocorrelationPeak scans lags corresponding to [loHz, hiHz] and
// returns the lag (in samples) with the highest normalised
// autocorrelation, the peak value, and the mean of all other sampled
// lags (the "sidelobe" level used to derive a peak-to-sidelobe
// confidence). Grounded on internal/bpm.detectBPM's lag-scanning
// autocorrelation loop, adapted from onset-periodicity search to
// single-tone pitch search.
func AutocorrelationPeak(samples []float32, sampleRate int, loHz, hiHz float64) (lag int, peak, sidelobeMean float64) {
	n := len(samples)
	if n == 0 || sampleRate <= 0 || loHz <= 0 || hiHz <= 0 {
		return 0, 0, 0
	}
	minLag := int(float64(sampleRate) / hiHz)
	maxLag := int(float64(sampleRate) / loHz)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	if minLag >= maxLag {
		return 0, 0, 0
	}

	var energy float64
	for _, s := range samples {
		v := float64(s)
		energy += v * v
	}
	if energy == 0 {
		return 0, 0, 0
	}

	bestLag := minLag
	bestCorr := -1.0
	var sum float64
	var count int
	for l := minLag; l <= maxLag; l++ {
		var corr float64
		for i := 0; i+l < n; i++ {
			corr += float64(samples[i]) * float64(samples[i+l])
		}
		corr /= energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = l
		}
		sum += corr
		count++
	}
	mean := 0.0
	if count > 1 {
		mean = (sum - bestCorr) / float64(count-1)
	}
	return bestLag, bestCorr, mean
}
