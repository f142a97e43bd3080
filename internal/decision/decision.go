// Package decision turns a match score and an anomaly report into a hiring
// tier, a composite ATS score and human-readable reasoning.
package decision

import (
	"fmt"
	"math"
)

// Hiring tiers, from best to worst.
const (
	TierShortlisted         = "SHORTLISTED"
	TierShortlistedWithFlag = "SHORTLISTED_WITH_FLAG"
	TierNeedsReview         = "NEEDS_REVIEW"
	TierRejected            = "REJECTED"
)

// Match score boundaries for the tier table.
const (
	strongMatchScore   = 65
	moderateMatchScore = 45
)

// DefaultAnomalyThreshold is the anomaly weight above which a candidate is
// flagged rather than cleanly shortlisted.
const DefaultAnomalyThreshold = 30

// DefaultMatchThreshold is the cut line used by DecideSingleThreshold.
const DefaultMatchThreshold = 50

// ATS composite weights.
const (
	matchPortion   = 0.70
	anomalyPortion = 0.30
)

// Decision is the full verdict for one candidate.
type Decision struct {
	Tier           string `json:"tier"`
	Shortlisted    bool   `json:"shortlisted"`
	ATSScore       int    `json:"atsScore"`
	Reason         string `json:"reason"`
	Recommendation string `json:"recommendation"`
}

// TierRank maps a tier to its sort order; lower is better. Unknown tiers
// sort last.
func TierRank(tier string) int {
	switch tier {
	case TierShortlisted:
		return 1
	case TierShortlistedWithFlag:
		return 2
	case TierNeedsReview:
		return 3
	case TierRejected:
		return 4
	default:
		return 5
	}
}

// Decide applies the two-axis tier table: the match score sets the band and
// the anomaly weight (against the threshold) picks the column within it.
// Threshold values <= 0 fall back to DefaultAnomalyThreshold.
func Decide(matchScore, anomalyWeight, anomalyThreshold int) Decision {
	if anomalyThreshold <= 0 {
		anomalyThreshold = DefaultAnomalyThreshold
	}
	flagged := anomalyWeight > anomalyThreshold

	var tier, reason, recommendation string
	switch {
	case matchScore >= strongMatchScore:
		if flagged {
			tier = TierShortlistedWithFlag
			reason = fmt.Sprintf("Strong match (%d%%) but resume has anomalies (weight %d)", matchScore, anomalyWeight)
			recommendation = "Proceed to interview; verify the flagged resume sections first"
		} else {
			tier = TierShortlisted
			reason = fmt.Sprintf("Strong match (%d%%) with a clean resume", matchScore)
			recommendation = "Proceed directly to interview"
		}
	case matchScore >= moderateMatchScore:
		if flagged {
			tier = TierNeedsReview
			reason = fmt.Sprintf("Moderate match (%d%%) and resume anomalies (weight %d)", matchScore, anomalyWeight)
			recommendation = "Manual review required before any interview decision"
		} else {
			tier = TierShortlisted
			reason = fmt.Sprintf("Moderate match (%d%%) with a clean resume", matchScore)
			recommendation = "Proceed to interview"
		}
	default:
		tier = TierRejected
		if flagged {
			reason = fmt.Sprintf("Weak match (%d%%) and resume anomalies (weight %d)", matchScore, anomalyWeight)
		} else {
			reason = fmt.Sprintf("Weak match (%d%%) for this role", matchScore)
		}
		recommendation = "Do not proceed for this role"
	}

	return Decision{
		Tier:           tier,
		Shortlisted:    tier != TierRejected,
		ATSScore:       ATSScore(matchScore, anomalyWeight),
		Reason:         reason,
		Recommendation: recommendation,
	}
}

// DecideSingleThreshold is the single-cut-line strategy: one configurable
// match threshold instead of the fixed 65/45 bands. Callers pick it by name;
// Decide stays the canonical table. Thresholds <= 0 fall back to the
// defaults.
func DecideSingleThreshold(matchScore, anomalyWeight, matchThreshold, anomalyThreshold int) Decision {
	if matchThreshold <= 0 {
		matchThreshold = DefaultMatchThreshold
	}
	if anomalyThreshold <= 0 {
		anomalyThreshold = DefaultAnomalyThreshold
	}
	flagged := anomalyWeight > anomalyThreshold

	var tier, reason, recommendation string
	switch {
	case matchScore >= matchThreshold && !flagged:
		tier = TierShortlisted
		reason = fmt.Sprintf("Match (%d%%) at or above the %d%% threshold with a clean resume", matchScore, matchThreshold)
		recommendation = "Proceed to interview"
	case matchScore >= matchThreshold:
		tier = TierShortlistedWithFlag
		reason = fmt.Sprintf("Match (%d%%) at or above the %d%% threshold but resume has anomalies (weight %d)", matchScore, matchThreshold, anomalyWeight)
		recommendation = "Proceed to interview; verify the flagged resume sections first"
	default:
		tier = TierRejected
		reason = fmt.Sprintf("Match (%d%%) below the %d%% threshold", matchScore, matchThreshold)
		recommendation = "Do not proceed for this role"
	}

	return Decision{
		Tier:           tier,
		Shortlisted:    tier != TierRejected,
		ATSScore:       ATSScore(matchScore, anomalyWeight),
		Reason:         reason,
		Recommendation: recommendation,
	}
}

// ATSScore blends the match score with the inverted anomaly weight.
// Halves round away from zero, so a blend of exactly .5 rounds up.
func ATSScore(matchScore, anomalyWeight int) int {
	return int(math.Round(float64(matchScore)*matchPortion + float64(100-anomalyWeight)*anomalyPortion))
}
