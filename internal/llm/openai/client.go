// Package openai implements llm.Client using the OpenAI Chat Completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"resume-screener/internal/llm"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

// Client calls OpenAI Chat Completions for candidate summaries.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// SummarizeCandidate asks the model for a two-sentence recruiter summary.
func (c *Client) SummarizeCandidate(ctx context.Context, input llm.SummaryInput) (string, error) {
	prompt := buildSummaryPrompt(input)
	temperature := float32(0.2)
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You write terse, factual candidate summaries for recruiters. Two sentences maximum."},
			{Role: "user", Content: prompt},
		},
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("openai read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openai decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func buildSummaryPrompt(input llm.SummaryInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate: %s\n", input.CandidateName)
	fmt.Fprintf(&b, "Role: %s\n", input.JobTitle)
	fmt.Fprintf(&b, "Match score: %d/100, decision tier: %s\n", input.MatchScore, input.Tier)
	if len(input.TopSkills) > 0 {
		fmt.Fprintf(&b, "Matched skills: %s\n", strings.Join(input.TopSkills, ", "))
	}
	if len(input.MissingSkills) > 0 {
		fmt.Fprintf(&b, "Missing skills: %s\n", strings.Join(input.MissingSkills, ", "))
	}
	b.WriteString("Summarize this candidate's fit for the role.")
	return b.String()
}

var _ llm.Client = (*Client)(nil)
