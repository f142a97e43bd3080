package jobsearch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"context"

	"resume-screener/internal/shared/telemetry"
)

// remoteTimeout bounds one job-board request; a slow board must not stall
// screening traffic.
const remoteTimeout = 15 * time.Second

// RemoteSource fetches jobs from an external board over HTTP and falls back
// to the sample set when the board is unreachable.
type RemoteSource struct {
	baseURL    string
	httpClient *http.Client
	fallback   Source
}

// NewRemoteSource constructs a remote source for the given base URL.
func NewRemoteSource(baseURL string) *RemoteSource {
	return &RemoteSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: remoteTimeout},
		fallback:   SampleSource{},
	}
}

type remoteJobsResponse struct {
	Jobs []Job `json:"jobs"`
}

// Search queries the board. Board failures degrade to the sample set rather
// than failing the caller.
func (s *RemoteSource) Search(ctx context.Context, query string, limit int) ([]Job, error) {
	jobs, err := s.fetch(ctx, query, limit)
	if err != nil {
		telemetry.Warn("jobsearch.remote.fallback", map[string]any{
			"error": err.Error(),
			"query": query,
		})
		return s.fallback.Search(ctx, query, limit)
	}
	return jobs, nil
}

func (s *RemoteSource) fetch(ctx context.Context, query string, limit int) ([]Job, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	endpoint := s.baseURL + "/jobs"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job board request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job board status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("job board read: %w", err)
	}

	var parsed remoteJobsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// some boards return a bare array
		var jobs []Job
		if err2 := json.Unmarshal(body, &jobs); err2 != nil {
			return nil, fmt.Errorf("job board decode: %w", err)
		}
		return jobs, nil
	}
	return parsed.Jobs, nil
}

func filterJobs(jobs []Job, query string) []Job {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Job, len(jobs))
		copy(out, jobs)
		return out
	}
	out := []Job{}
	for _, job := range jobs {
		haystack := strings.ToLower(job.Title + " " + job.Description)
		if strings.Contains(haystack, query) {
			out = append(out, job)
		}
	}
	return out
}

var _ Source = (*RemoteSource)(nil)
