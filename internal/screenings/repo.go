package screenings

import (
	"context"
	"time"
)

// Repo defines persistence operations for screenings and batches.
type Repo interface {
	Create(ctx context.Context, screening Screening) error
	GetByID(ctx context.Context, screeningID string) (Screening, error)
	UpdateStatus(ctx context.Context, screeningID, status string, update StatusUpdate) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Screening, error)
	ListByBatch(ctx context.Context, batchID string) ([]Screening, error)

	CreateBatch(ctx context.Context, batch Batch) error
	GetBatch(ctx context.Context, batchID string) (Batch, error)
	UpdateBatchProgress(ctx context.Context, batchID string, completed, failed int, status string, completedAt *time.Time) error
}

// StatusUpdate carries the optional fields written on a status transition.
type StatusUpdate struct {
	Result        *Result
	CandidateName string
	MatchScore    int
	AnomalyWeight int
	ATSScore      int
	Tier          string
	ErrorMessage  string
	CompletedAt   *time.Time
}
