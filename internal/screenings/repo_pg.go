package screenings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const screeningColumns = `
id, user_id, document_id, batch_id, candidate_name, job_title, job_description,
resume_text, status, match_score, anomaly_weight, ats_score, tier, result,
error_message, created_at, completed_at`

// Create inserts a new screening.
func (r *PGRepo) Create(ctx context.Context, screening Screening) error {
	const query = `
INSERT INTO screenings (
	id, user_id, document_id, batch_id, candidate_name, job_title, job_description,
	resume_text, status, match_score, anomaly_weight, ats_score, tier, result,
	error_message, created_at, completed_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	resultPayload, err := marshalResult(screening.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		screening.ID,
		screening.UserID,
		nullString(screening.DocumentID),
		nullString(screening.BatchID),
		screening.CandidateName,
		screening.JobTitle,
		screening.JobDescription,
		screening.ResumeText,
		screening.Status,
		screening.MatchScore,
		screening.AnomalyWeight,
		screening.ATSScore,
		screening.Tier,
		resultPayload,
		nullString(screening.ErrorMessage),
		screening.CreatedAt,
		screening.CompletedAt,
	)
	return err
}

// GetByID returns a screening by ID.
func (r *PGRepo) GetByID(ctx context.Context, screeningID string) (Screening, error) {
	query := `SELECT ` + screeningColumns + ` FROM screenings WHERE id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, screeningID)
	screening, err := scanScreening(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Screening{}, ErrNotFound
		}
		return Screening{}, err
	}
	return screening, nil
}

// UpdateStatus transitions a screening and writes the fields the transition carries.
func (r *PGRepo) UpdateStatus(ctx context.Context, screeningID, status string, update StatusUpdate) error {
	const query = `
UPDATE screenings
SET status = $2,
    candidate_name = COALESCE(NULLIF($3, ''), candidate_name),
    match_score = CASE WHEN $4::jsonb IS NULL THEN match_score ELSE $5 END,
    anomaly_weight = CASE WHEN $4::jsonb IS NULL THEN anomaly_weight ELSE $6 END,
    ats_score = CASE WHEN $4::jsonb IS NULL THEN ats_score ELSE $7 END,
    tier = CASE WHEN $4::jsonb IS NULL THEN tier ELSE $8 END,
    result = COALESCE($4::jsonb, result),
    error_message = COALESCE(NULLIF($9, ''), error_message),
    completed_at = COALESCE($10, completed_at)
WHERE id = $1`

	resultPayload, err := marshalResult(update.Result)
	if err != nil {
		return err
	}
	completedAt := update.CompletedAt
	if completedAt == nil && (status == StatusCompleted || status == StatusFailed) {
		now := time.Now().UTC()
		completedAt = &now
	}
	res, err := r.DB.ExecContext(ctx, query,
		screeningID,
		status,
		update.CandidateName,
		resultPayload,
		update.MatchScore,
		update.AnomalyWeight,
		update.ATSScore,
		update.Tier,
		update.ErrorMessage,
		completedAt,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns screenings for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Screening, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + screeningColumns + `
FROM screenings
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScreenings(rows)
}

// ListByBatch returns a batch's screenings in creation order.
func (r *PGRepo) ListByBatch(ctx context.Context, batchID string) ([]Screening, error) {
	query := `SELECT ` + screeningColumns + `
FROM screenings
WHERE batch_id = $1
ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScreenings(rows)
}

// CreateBatch inserts a new batch.
func (r *PGRepo) CreateBatch(ctx context.Context, batch Batch) error {
	const query = `
INSERT INTO screening_batches (id, user_id, job_title, job_description, status, total, completed, failed, created_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		batch.ID,
		batch.UserID,
		batch.JobTitle,
		batch.JobDescription,
		batch.Status,
		batch.Total,
		batch.Completed,
		batch.Failed,
		batch.CreatedAt,
		batch.CompletedAt,
	)
	return err
}

// GetBatch returns a batch by ID.
func (r *PGRepo) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	const query = `
SELECT id, user_id, job_title, job_description, status, total, completed, failed, created_at, completed_at
FROM screening_batches
WHERE id = $1
LIMIT 1`
	var b Batch
	var completedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, batchID).Scan(
		&b.ID,
		&b.UserID,
		&b.JobTitle,
		&b.JobDescription,
		&b.Status,
		&b.Total,
		&b.Completed,
		&b.Failed,
		&b.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, ErrBatchNotFound
		}
		return Batch{}, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.CompletedAt = &t
	}
	return b, nil
}

// UpdateBatchProgress writes completion counters and the batch status.
func (r *PGRepo) UpdateBatchProgress(ctx context.Context, batchID string, completed, failed int, status string, completedAt *time.Time) error {
	const query = `
UPDATE screening_batches
SET completed = $2,
    failed = $3,
    status = COALESCE(NULLIF($4, ''), status),
    completed_at = COALESCE($5, completed_at)
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, batchID, completed, failed, status, completedAt)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrBatchNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScreening(row rowScanner) (Screening, error) {
	var s Screening
	var documentID, batchID, errorMessage, result sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&documentID,
		&batchID,
		&s.CandidateName,
		&s.JobTitle,
		&s.JobDescription,
		&s.ResumeText,
		&s.Status,
		&s.MatchScore,
		&s.AnomalyWeight,
		&s.ATSScore,
		&s.Tier,
		&result,
		&errorMessage,
		&s.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return Screening{}, err
	}
	s.DocumentID = documentID.String
	s.BatchID = batchID.String
	s.ErrorMessage = errorMessage.String
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	if result.Valid {
		var parsed Result
		if err := json.Unmarshal([]byte(result.String), &parsed); err == nil {
			s.Result = &parsed
		}
	}
	return s, nil
}

func collectScreenings(rows *sql.Rows) ([]Screening, error) {
	out := []Screening{}
	for rows.Next() {
		screening, err := scanScreening(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, screening)
	}
	return out, rows.Err()
}

func marshalResult(result *Result) (any, error) {
	if result == nil {
		return nil, nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
