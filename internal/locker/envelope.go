package locker

import "github.com/marshalleq/vhstimecode/internal/dsp"

// classifyEnvelope computes a non-overlapping RMS envelope (window ==
// hop, spec.md §4.4 step 1) and classifies each window High/Low/
// Ambiguous (step 2). The final partial window, if any, is classified
// on whatever samples remain.
func classifyEnvelope(audio []float32, windowSamples int) []windowClass {
	n := (len(audio) + windowSamples - 1) / windowSamples
	classes := make([]windowClass, n)
	for i := 0; i < n; i++ {
		start := i * windowSamples
		end := start + windowSamples
		if end > len(audio) {
			end = len(audio)
		}
		rms := dsp.RMS(audio[start:end])
		classes[i] = classifyRMS(rms)
	}
	return classes
}

// findCandidateStarts scans classes for a High run of at least
// requiredHigh windows immediately followed by a Low run of at least
// requiredLow windows (spec.md §4.4 step 3), returning the window
// index of each such High run's start.
func findCandidateStarts(classes []windowClass, requiredHigh, requiredLow int) []int {
	var starts []int
	i := 0
	for i < len(classes) {
		if classes[i] != classHigh {
			i++
			continue
		}
		highRun := runLength(classes, i, classHigh)
		if highRun >= requiredHigh {
			lowRun := runLength(classes, i+highRun, classLow)
			if lowRun >= requiredLow {
				starts = append(starts, i)
				i += highRun + lowRun
				continue
			}
		}
		i++
	}
	return starts
}

func runLength(classes []windowClass, start int, want windowClass) int {
	n := 0
	for i := start; i < len(classes) && classes[i] == want; i++ {
		n++
	}
	return n
}
