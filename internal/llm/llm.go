// Package llm abstracts the optional language-model enrichment of screening
// results. Screening outcomes never depend on it; a failed or absent provider
// only costs the summary text.
package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for candidate summaries.
type Client interface {
	SummarizeCandidate(ctx context.Context, input SummaryInput) (string, error)
}

// SummaryInput captures what the provider needs to write a short summary.
type SummaryInput struct {
	CandidateName string
	JobTitle      string
	MatchScore    int
	Tier          string
	TopSkills     []string
	MissingSkills []string
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient stands in when no provider is configured.
type PlaceholderClient struct{}

// SummarizeCandidate returns ErrNotConfigured.
func (PlaceholderClient) SummarizeCandidate(ctx context.Context, input SummaryInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}
