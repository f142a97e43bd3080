package screenings

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores screenings in memory and is safe for concurrent use.
// It backs local development and tests when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Screening
	byUser  map[string][]string
	byBatch map[string][]string
	batches map[string]Batch
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Screening),
		byUser:  make(map[string][]string),
		byBatch: make(map[string][]string),
		batches: make(map[string]Batch),
	}
}

// Create stores the screening.
func (r *MemoryRepo) Create(ctx context.Context, screening Screening) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[screening.ID] = screening
	r.byUser[screening.UserID] = append(r.byUser[screening.UserID], screening.ID)
	if screening.BatchID != "" {
		r.byBatch[screening.BatchID] = append(r.byBatch[screening.BatchID], screening.ID)
	}
	return nil
}

// GetByID returns a screening by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, screeningID string) (Screening, error) {
	if err := ctx.Err(); err != nil {
		return Screening{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	screening, ok := r.byID[screeningID]
	if !ok {
		return Screening{}, ErrNotFound
	}
	return screening, nil
}

// UpdateStatus transitions a screening and writes the fields the transition
// carries.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, screeningID, status string, update StatusUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	screening, ok := r.byID[screeningID]
	if !ok {
		return ErrNotFound
	}
	screening.Status = status
	if update.Result != nil {
		screening.Result = update.Result
		screening.CandidateName = update.CandidateName
		screening.MatchScore = update.MatchScore
		screening.AnomalyWeight = update.AnomalyWeight
		screening.ATSScore = update.ATSScore
		screening.Tier = update.Tier
	}
	if update.ErrorMessage != "" {
		screening.ErrorMessage = update.ErrorMessage
	}
	if update.CompletedAt != nil {
		screening.CompletedAt = update.CompletedAt
	} else if (status == StatusCompleted || status == StatusFailed) && screening.CompletedAt == nil {
		now := time.Now().UTC()
		screening.CompletedAt = &now
	}
	r.byID[screeningID] = screening
	return nil
}

// ListByUser returns screenings for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Screening, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byUser[userID]
	out := make([]Screening, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Screening{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// ListByBatch returns a batch's screenings in insertion order.
func (r *MemoryRepo) ListByBatch(ctx context.Context, batchID string) ([]Screening, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byBatch[batchID]
	out := make([]Screening, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out, nil
}

// CreateBatch stores the batch.
func (r *MemoryRepo) CreateBatch(ctx context.Context, batch Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.ID] = batch
	return nil
}

// GetBatch returns a batch by its ID.
func (r *MemoryRepo) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	batch, ok := r.batches[batchID]
	if !ok {
		return Batch{}, ErrBatchNotFound
	}
	return batch, nil
}

// UpdateBatchProgress writes completion counters and the batch status.
func (r *MemoryRepo) UpdateBatchProgress(ctx context.Context, batchID string, completed, failed int, status string, completedAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[batchID]
	if !ok {
		return ErrBatchNotFound
	}
	batch.Completed = completed
	batch.Failed = failed
	if status != "" {
		batch.Status = status
	}
	if completedAt != nil {
		batch.CompletedAt = completedAt
	}
	r.batches[batchID] = batch
	return nil
}
