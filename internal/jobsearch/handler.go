package jobsearch

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/match"
	"resume-screener/internal/parser"
	"resume-screener/internal/shared/server/respond"
)

const (
	defaultMinScore = 30
	defaultJobLimit = 20
)

// Handler matches a resume against open jobs from the configured source.
type Handler struct {
	Source Source
	Parser parser.Extractor
	Scorer *match.Scorer

	// MinScore drops matches below it; zero means the default.
	MinScore int
}

// NewHandler constructs a Handler.
func NewHandler(source Source, extractor parser.Extractor, scorer *match.Scorer, minScore int) *Handler {
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	return &Handler{Source: source, Parser: extractor, Scorer: scorer, MinScore: minScore}
}

// RegisterRoutes attaches job-matching routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/match", h.matchJobs)
}

type matchJobsRequest struct {
	ResumeText string `json:"resumeText"`
	Query      string `json:"query"`
	Limit      int    `json:"limit"`
}

type jobMatch struct {
	Job    Job          `json:"job"`
	Scores match.Result `json:"scores"`
}

func (h *Handler) matchJobs(c *gin.Context) {
	var req matchJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeText is required", nil)
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = defaultJobLimit
	}

	parsed, err := h.Parser.Parse(req.ResumeText)
	if err != nil {
		switch {
		case errors.Is(err, parser.ErrEmptyText):
			respond.Error(c, http.StatusBadRequest, "validation_error", "resume text is empty", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to parse resume", nil)
		}
		return
	}

	jobs, err := h.Source.Search(c.Request.Context(), req.Query, limit)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "jobsearch_error", "failed to fetch jobs", nil)
		return
	}

	matchesList := make([]jobMatch, 0, len(jobs))
	for _, job := range jobs {
		scores := h.Scorer.Score(parsed, job.Title, job.Description)
		if scores.MatchScore < h.MinScore {
			continue
		}
		matchesList = append(matchesList, jobMatch{Job: job, Scores: scores})
	}
	sort.SliceStable(matchesList, func(i, j int) bool {
		return matchesList[i].Scores.MatchScore > matchesList[j].Scores.MatchScore
	})

	respond.JSON(c, http.StatusOK, gin.H{
		"candidate": gin.H{
			"name":   parsed.Name,
			"skills": parsed.Skills,
		},
		"matches": matchesList,
	})
}
