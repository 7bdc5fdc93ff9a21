package correlator

import "math"

// buildReport computes mean, population std-dev, min, max, and mean
// confidence over matches (spec.md §4.5's statistics rule). An empty
// matches slice yields a zero-valued report with MatchCount 0.
func buildReport(matches []OffsetMatch) OffsetReport {
	report := OffsetReport{Matches: matches, MatchCount: len(matches)}
	if len(matches) == 0 {
		return report
	}

	var sumOffset, sumConfidence float64
	report.MinOffsetSeconds = matches[0].OffsetSeconds
	report.MaxOffsetSeconds = matches[0].OffsetSeconds
	for _, m := range matches {
		sumOffset += m.OffsetSeconds
		sumConfidence += m.Confidence
		if m.OffsetSeconds < report.MinOffsetSeconds {
			report.MinOffsetSeconds = m.OffsetSeconds
		}
		if m.OffsetSeconds > report.MaxOffsetSeconds {
			report.MaxOffsetSeconds = m.OffsetSeconds
		}
	}
	mean := sumOffset / float64(len(matches))
	report.MeanOffsetSeconds = mean
	report.MeanConfidence = sumConfidence / float64(len(matches))

	var sumSquaredDev float64
	for _, m := range matches {
		d := m.OffsetSeconds - mean
		sumSquaredDev += d * d
	}
	report.StdDevSeconds = math.Sqrt(sumSquaredDev / float64(len(matches)))

	return report
}

// TrimOutliers implements spec.md §4.5's optional single-pass outlier
// refinement: discard matches whose offset lies more than 3*sigma from
// the mean, then recompute statistics. Per spec.md, this behaviour
// must be reported in the output — OutliersTrimmed carries the count.
func TrimOutliers(report OffsetReport) OffsetReport {
	if report.MatchCount == 0 {
		return report
	}
	threshold := 3 * report.StdDevSeconds
	if threshold == 0 {
		return report
	}

	kept := make([]OffsetMatch, 0, len(report.Matches))
	trimmed := 0
	for _, m := range report.Matches {
		if math.Abs(m.OffsetSeconds-report.MeanOffsetSeconds) > threshold {
			trimmed++
			continue
		}
		kept = append(kept, m)
	}
	if trimmed == 0 {
		return report
	}

	refined := buildReport(kept)
	refined.OutliersTrimmed = trimmed
	return refined
}
