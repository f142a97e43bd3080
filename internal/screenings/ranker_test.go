package screenings

import (
	"testing"

	"resume-screener/internal/decision"
)

func completedScreening(id, tier string, matchScore, anomalyWeight int) Screening {
	return Screening{
		ID:            id,
		Status:        StatusCompleted,
		Tier:          tier,
		MatchScore:    matchScore,
		AnomalyWeight: anomalyWeight,
	}
}

func TestRankOrdersByTierScoreAndWeight(t *testing.T) {
	members := []Screening{
		completedScreening("rejected", decision.TierRejected, 90, 0),
		completedScreening("review", decision.TierNeedsReview, 60, 40),
		completedScreening("flagged-high", decision.TierShortlistedWithFlag, 88, 35),
		completedScreening("clean-low", decision.TierShortlisted, 70, 5),
		completedScreening("clean-high", decision.TierShortlisted, 85, 10),
	}

	ranked, failed := Rank(members)
	if len(failed) != 0 {
		t.Fatalf("failed = %+v, want none", failed)
	}

	wantOrder := []string{"clean-high", "clean-low", "flagged-high", "review", "rejected"}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("ranked = %d entries, want %d", len(ranked), len(wantOrder))
	}
	for i, want := range wantOrder {
		if ranked[i].Screening.ID != want {
			t.Errorf("position %d = %q, want %q", i, ranked[i].Screening.ID, want)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("rank at position %d = %d, want %d", i, ranked[i].Rank, i+1)
		}
	}
}

func TestRankBreaksScoreTiesByAnomalyWeight(t *testing.T) {
	members := []Screening{
		completedScreening("heavier", decision.TierShortlisted, 80, 20),
		completedScreening("lighter", decision.TierShortlisted, 80, 5),
	}
	ranked, _ := Rank(members)
	if ranked[0].Screening.ID != "lighter" {
		t.Errorf("tie at equal score must favor lower anomaly weight, got %q first", ranked[0].Screening.ID)
	}
}

func TestRankIsStableOnFullTies(t *testing.T) {
	members := []Screening{
		completedScreening("first", decision.TierShortlisted, 80, 10),
		completedScreening("second", decision.TierShortlisted, 80, 10),
	}
	ranked, _ := Rank(members)
	if ranked[0].Screening.ID != "first" || ranked[1].Screening.ID != "second" {
		t.Errorf("full ties must keep input order, got %q then %q",
			ranked[0].Screening.ID, ranked[1].Screening.ID)
	}
}

func TestRankExcludesFailuresAndPending(t *testing.T) {
	members := []Screening{
		completedScreening("done", decision.TierShortlisted, 75, 0),
		{ID: "broken", Status: StatusFailed, ErrorMessage: "resume text is empty"},
		{ID: "pending", Status: StatusQueued},
	}
	ranked, failed := Rank(members)
	if len(ranked) != 1 || ranked[0].Screening.ID != "done" {
		t.Fatalf("ranked = %+v, want only the completed screening", ranked)
	}
	if len(failed) != 1 || failed[0].ID != "broken" {
		t.Fatalf("failed = %+v, want only the failed screening", failed)
	}
}

func TestRankEmptyInput(t *testing.T) {
	ranked, failed := Rank(nil)
	if len(ranked) != 0 || len(failed) != 0 {
		t.Fatalf("ranked/failed = %v/%v, want empty", ranked, failed)
	}
}
