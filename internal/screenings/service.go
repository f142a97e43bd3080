// Package screenings evaluates resumes against job postings and persists the
// outcome. One screening is parse, anomaly detection, match scoring and a
// hiring decision over a single resume; a batch ranks many screenings against
// the same job.
package screenings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-screener/internal/anomaly"
	"resume-screener/internal/decision"
	"resume-screener/internal/documents"
	"resume-screener/internal/extract"
	"resume-screener/internal/llm"
	"resume-screener/internal/match"
	"resume-screener/internal/parser"
	"resume-screener/internal/queue"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/telemetry"
)

const (
	defaultRankWorkers = 4
	summaryTimeout     = 10 * time.Second
)

// Service contains business logic for screenings.
type Service struct {
	Repo    Repo
	DocRepo documents.Repo
	Store   object.ObjectStore
	Queue   queue.Client
	LLM     llm.Client
	Parser  parser.Extractor
	Scorer  *match.Scorer

	AnomalyThreshold int
	RankWorkers      int
}

// CreateInput is one resume to screen. Exactly one of ResumeText or
// DocumentID must be set.
type CreateInput struct {
	ResumeText     string
	DocumentID     string
	JobTitle       string
	JobDescription string
}

// BatchResume is one entry of a bulk screening request.
type BatchResume struct {
	Label      string
	ResumeText string
	DocumentID string
}

// Evaluate runs the full pipeline over one resume without touching storage.
// The same inputs always yield the same result, apart from the optional
// summary text.
func (s *Service) Evaluate(ctx context.Context, resumeText, jobTitle, jobDescription string) (Result, error) {
	parsed, err := s.Parser.Parse(resumeText)
	if err != nil {
		return Result{}, err
	}

	report := anomaly.Detect(parsed)
	matchResult := s.Scorer.Score(parsed, jobTitle, jobDescription)
	verdict := decision.Decide(matchResult.MatchScore, report.Weight, s.AnomalyThreshold)

	result := Result{
		Candidate: parsed,
		Anomalies: report,
		Match:     matchResult,
		Decision:  verdict,
	}
	result.Summary = s.summarize(ctx, parsed.Name, jobTitle, matchResult, verdict)
	return result, nil
}

// summarize asks the LLM for a recruiter summary. Failures are logged and
// swallowed; the screening result stands without it.
func (s *Service) summarize(ctx context.Context, candidateName, jobTitle string, matchResult match.Result, verdict decision.Decision) string {
	if s.LLM == nil {
		return ""
	}
	summaryCtx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()
	summary, err := s.LLM.SummarizeCandidate(summaryCtx, llm.SummaryInput{
		CandidateName: candidateName,
		JobTitle:      jobTitle,
		MatchScore:    matchResult.MatchScore,
		Tier:          verdict.Tier,
		TopSkills:     matchResult.MatchedSkills,
		MissingSkills: matchResult.MissingSkills,
	})
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			telemetry.Warn("screening.summary.failed", map[string]any{"error": err.Error()})
		}
		return ""
	}
	return summary
}

// Create screens a single resume synchronously and persists the outcome.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (Screening, error) {
	if userID == "" {
		return Screening{}, errors.New("userID is required")
	}
	if strings.TrimSpace(input.JobDescription) == "" {
		return Screening{}, fmt.Errorf("%w: job description is required", ErrEmptyResume)
	}

	resumeText, err := s.resolveResumeText(ctx, userID, input.ResumeText, input.DocumentID)
	if err != nil {
		return Screening{}, err
	}

	screening := Screening{
		ID:             uuid.NewString(),
		UserID:         userID,
		DocumentID:     input.DocumentID,
		JobTitle:       input.JobTitle,
		JobDescription: input.JobDescription,
		ResumeText:     resumeText,
		Status:         StatusQueued,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, screening); err != nil {
		return Screening{}, err
	}

	return s.process(ctx, screening)
}

// CreateBatch records a batch of resumes against one job. With a queue
// configured the batch is processed by the worker; otherwise it is processed
// before returning.
func (s *Service) CreateBatch(ctx context.Context, userID, jobTitle, jobDescription string, resumes []BatchResume) (Batch, error) {
	if userID == "" {
		return Batch{}, errors.New("userID is required")
	}
	if len(resumes) == 0 {
		return Batch{}, ErrEmptyBatch
	}

	batch := Batch{
		ID:             uuid.NewString(),
		UserID:         userID,
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
		Status:         StatusQueued,
		Total:          len(resumes),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.CreateBatch(ctx, batch); err != nil {
		return Batch{}, err
	}

	createdAt := batch.CreatedAt
	for _, resume := range resumes {
		resumeText, err := s.resolveResumeText(ctx, userID, resume.ResumeText, resume.DocumentID)
		screening := Screening{
			ID:             uuid.NewString(),
			UserID:         userID,
			DocumentID:     resume.DocumentID,
			BatchID:        batch.ID,
			CandidateName:  resume.Label,
			JobTitle:       jobTitle,
			JobDescription: jobDescription,
			ResumeText:     resumeText,
			Status:         StatusQueued,
			CreatedAt:      createdAt,
		}
		// keep ListByBatch order stable under identical timestamps
		createdAt = createdAt.Add(time.Microsecond)
		if err != nil {
			screening.Status = StatusFailed
			screening.ErrorMessage = err.Error()
			now := time.Now().UTC()
			screening.CompletedAt = &now
		}
		if err := s.Repo.Create(ctx, screening); err != nil {
			return Batch{}, err
		}
	}
	metrics.IncBatchStarted()

	if s.Queue != nil {
		msg := queue.Message{
			BatchID:    batch.ID,
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		if err := s.Queue.Send(ctx, msg); err != nil {
			telemetry.Error("batch.enqueue.failed", map[string]any{"batchId": batch.ID, "error": err.Error()})
			return Batch{}, err
		}
		return batch, nil
	}

	if err := s.ProcessBatch(ctx, batch.ID); err != nil {
		return Batch{}, err
	}
	return s.Repo.GetBatch(ctx, batch.ID)
}

// Get returns a screening by ID, scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, screeningID string) (Screening, error) {
	if screeningID == "" {
		return Screening{}, errors.New("screeningID is required")
	}
	screening, err := s.Repo.GetByID(ctx, screeningID)
	if err != nil {
		return Screening{}, err
	}
	if screening.UserID != userID {
		return Screening{}, ErrNotFound
	}
	return screening, nil
}

// List returns screenings for a user, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Screening, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// GetBatch returns a batch with its ranked results and any failures.
func (s *Service) GetBatch(ctx context.Context, userID, batchID string) (Batch, []RankedScreening, []Screening, error) {
	batch, err := s.Repo.GetBatch(ctx, batchID)
	if err != nil {
		return Batch{}, nil, nil, err
	}
	if batch.UserID != userID {
		return Batch{}, nil, nil, ErrBatchNotFound
	}
	members, err := s.Repo.ListByBatch(ctx, batchID)
	if err != nil {
		return Batch{}, nil, nil, err
	}
	ranked, failed := Rank(members)
	return batch, ranked, failed, nil
}

// ProcessScreening evaluates one stored screening; used by the queue worker.
func (s *Service) ProcessScreening(ctx context.Context, screeningID string) error {
	screening, err := s.Repo.GetByID(ctx, screeningID)
	if err != nil {
		return err
	}
	if screening.Status == StatusCompleted {
		return nil
	}
	_, err = s.process(ctx, screening)
	return err
}

// ProcessBatch evaluates a batch's queued screenings with a bounded worker
// pool and finalizes the batch counters. One bad resume fails its own
// screening only.
func (s *Service) ProcessBatch(ctx context.Context, batchID string) error {
	batch, err := s.Repo.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	members, err := s.Repo.ListByBatch(ctx, batchID)
	if err != nil {
		return err
	}

	if err := s.Repo.UpdateBatchProgress(ctx, batch.ID, 0, 0, StatusProcessing, nil); err != nil {
		return err
	}

	workers := s.RankWorkers
	if workers <= 0 {
		workers = defaultRankWorkers
	}
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, member := range members {
		if member.Status != StatusQueued {
			continue
		}
		member := member
		g.Go(func() error {
			// processing errors are recorded on the screening row
			_, _ = s.process(groupCtx, member)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	final, err := s.Repo.ListByBatch(ctx, batchID)
	if err != nil {
		return err
	}
	completed, failed := 0, 0
	for _, member := range final {
		switch member.Status {
		case StatusCompleted:
			completed++
		case StatusFailed:
			failed++
		}
	}
	now := time.Now().UTC()
	if err := s.Repo.UpdateBatchProgress(ctx, batch.ID, completed, failed, StatusCompleted, &now); err != nil {
		return err
	}
	metrics.IncBatchCompleted()
	telemetry.Info("batch.completed", map[string]any{
		"batchId":   batch.ID,
		"total":     batch.Total,
		"completed": completed,
		"failed":    failed,
	})
	return nil
}

func (s *Service) process(ctx context.Context, screening Screening) (Screening, error) {
	metrics.IncScreeningStarted()
	started := metrics.NowMillis()

	if err := s.Repo.UpdateStatus(ctx, screening.ID, StatusProcessing, StatusUpdate{}); err != nil {
		return Screening{}, err
	}

	result, err := s.Evaluate(ctx, screening.ResumeText, screening.JobTitle, screening.JobDescription)
	if err != nil {
		metrics.IncScreeningFailed()
		telemetry.Error("screening.failed", map[string]any{
			"screeningId": screening.ID,
			"error":       err.Error(),
		})
		_ = s.Repo.UpdateStatus(ctx, screening.ID, StatusFailed, StatusUpdate{ErrorMessage: err.Error()})
		return Screening{}, err
	}

	candidateName := result.Candidate.Name
	if candidateName == parser.UnknownCandidate && screening.CandidateName != "" {
		candidateName = screening.CandidateName
	}
	update := StatusUpdate{
		Result:        &result,
		CandidateName: candidateName,
		MatchScore:    result.Match.MatchScore,
		AnomalyWeight: result.Anomalies.Weight,
		ATSScore:      result.Decision.ATSScore,
		Tier:          result.Decision.Tier,
	}
	if err := s.Repo.UpdateStatus(ctx, screening.ID, StatusCompleted, update); err != nil {
		return Screening{}, err
	}

	metrics.IncScreeningCompleted()
	metrics.ObserveScreeningDurationMs(metrics.NowMillis() - started)
	telemetry.Info("screening.completed", map[string]any{
		"screeningId":   screening.ID,
		"tier":          result.Decision.Tier,
		"matchScore":    result.Match.MatchScore,
		"anomalyWeight": result.Anomalies.Weight,
	})

	return s.Repo.GetByID(ctx, screening.ID)
}

// resolveResumeText returns the inline text or extracts it from a stored
// document.
func (s *Service) resolveResumeText(ctx context.Context, userID, resumeText, documentID string) (string, error) {
	text := strings.TrimSpace(resumeText)
	if text != "" {
		return text, nil
	}
	if documentID == "" {
		return "", ErrEmptyResume
	}
	if s.DocRepo == nil || s.Store == nil {
		return "", errors.New("document storage not configured")
	}
	doc, err := s.DocRepo.GetByID(ctx, userID, documentID)
	if err != nil {
		return "", err
	}
	extracted, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(extracted) == "" {
		return "", ErrEmptyResume
	}
	return extracted, nil
}
