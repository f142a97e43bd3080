package screenings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	screening := Screening{
		ID:             "screening-1",
		UserID:         "user-1",
		BatchID:        "batch-1",
		CandidateName:  "Ayesha Khan",
		JobTitle:       "Python Developer",
		JobDescription: "jd",
		ResumeText:     "resume",
		Status:         StatusQueued,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO screenings").
		WithArgs(
			screening.ID,
			screening.UserID,
			nil, // document_id
			screening.BatchID,
			screening.CandidateName,
			screening.JobTitle,
			screening.JobDescription,
			screening.ResumeText,
			screening.Status,
			0, 0, 0, "",
			nil, // result
			nil, // error_message
			sqlmock.AnyArg(),
			nil, // completed_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), screening); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT .+ FROM screenings").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpdateStatusCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	result := &Result{}
	mock.ExpectExec("UPDATE screenings").
		WithArgs(
			"screening-1",
			StatusCompleted,
			"Ayesha Khan",
			sqlmock.AnyArg(), // result json
			82, 10, 84, "SHORTLISTED",
			"",
			sqlmock.AnyArg(), // completed_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateStatus(context.Background(), "screening-1", StatusCompleted, StatusUpdate{
		Result:        result,
		CandidateName: "Ayesha Khan",
		MatchScore:    82,
		AnomalyWeight: 10,
		ATSScore:      84,
		Tier:          "SHORTLISTED",
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE screenings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "missing", StatusFailed, StatusUpdate{ErrorMessage: "boom"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoGetBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "job_title", "job_description", "status",
		"total", "completed", "failed", "created_at", "completed_at",
	}).AddRow("batch-1", "user-1", "Python Developer", "jd", StatusCompleted, 3, 2, 1, now, now)

	mock.ExpectQuery("SELECT .+ FROM screening_batches").
		WithArgs("batch-1").
		WillReturnRows(rows)

	batch, err := repo.GetBatch(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if batch.Total != 3 || batch.Completed != 2 || batch.Failed != 1 {
		t.Errorf("counters = %d/%d/%d, want 3/2/1", batch.Total, batch.Completed, batch.Failed)
	}
	if batch.CompletedAt == nil {
		t.Error("completedAt must be set")
	}
}
