package screenings

import (
	"sort"

	"resume-screener/internal/decision"
)

// Rank orders a batch's completed screenings best-first and assigns 1-based
// ranks. Order is tier first, then match score descending, then anomaly
// weight ascending; remaining ties keep their creation order. Screenings that
// did not complete are returned separately and never ranked.
func Rank(members []Screening) (ranked []RankedScreening, failed []Screening) {
	completed := make([]Screening, 0, len(members))
	failed = []Screening{}
	for _, member := range members {
		switch member.Status {
		case StatusCompleted:
			completed = append(completed, member)
		case StatusFailed:
			failed = append(failed, member)
		}
	}

	sort.SliceStable(completed, func(i, j int) bool {
		a, b := completed[i], completed[j]
		rankA, rankB := decision.TierRank(a.Tier), decision.TierRank(b.Tier)
		if rankA != rankB {
			return rankA < rankB
		}
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		return a.AnomalyWeight < b.AnomalyWeight
	})

	ranked = make([]RankedScreening, 0, len(completed))
	for i, member := range completed {
		ranked = append(ranked, RankedScreening{Rank: i + 1, Screening: member})
	}
	return ranked, failed
}
