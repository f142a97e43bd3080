package screenings

import "errors"

var (
	ErrNotFound      = errors.New("screening not found")
	ErrBatchNotFound = errors.New("batch not found")
	ErrEmptyResume   = errors.New("resume text is empty")
	ErrEmptyBatch    = errors.New("batch has no resumes")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeExtraction = "EXTRACTION_ERROR"
	ErrorCodeStorage    = "STORAGE_ERROR"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)
