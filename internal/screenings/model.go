package screenings

import (
	"time"

	"resume-screener/internal/anomaly"
	"resume-screener/internal/decision"
	"resume-screener/internal/match"
	"resume-screener/internal/parser"
)

// Screening lifecycle statuses.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Screening is one candidate evaluated against one job.
type Screening struct {
	ID             string
	UserID         string
	DocumentID     string
	BatchID        string
	CandidateName  string
	JobTitle       string
	JobDescription string
	ResumeText     string
	Status         string
	MatchScore     int
	AnomalyWeight  int
	ATSScore       int
	Tier           string
	Result         *Result
	ErrorMessage   string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Result is the full evaluation payload persisted as JSONB.
type Result struct {
	Candidate parser.ParsedResume `json:"candidate"`
	Anomalies anomaly.Report      `json:"anomalies"`
	Match     match.Result        `json:"match"`
	Decision  decision.Decision   `json:"decision"`
	Summary   string              `json:"summary,omitempty"`
}

// Batch groups screenings evaluated together against one job, for ranking.
type Batch struct {
	ID             string
	UserID         string
	JobTitle       string
	JobDescription string
	Status         string
	Total          int
	Completed      int
	Failed         int
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// RankedScreening is one completed screening with its 1-based batch rank.
type RankedScreening struct {
	Rank      int
	Screening Screening
}
