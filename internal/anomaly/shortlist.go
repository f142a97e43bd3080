package anomaly

import "resume-screener/internal/decision"

// ShouldShortlist is the decision shortcut for callers that hold an anomaly
// report and a match score but no full job comparison. It applies the same
// tier table as the decision package, keyed on the report's weight.
func ShouldShortlist(report Report, matchScore, anomalyThreshold int) decision.Decision {
	return decision.Decide(matchScore, report.Weight, anomalyThreshold)
}
