package screenings

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/documents"
	"resume-screener/internal/parser"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
)

// maxBatchSize caps one bulk screening request.
const maxBatchSize = 100

// Handler wires HTTP handlers to the screenings service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches screening routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/screenings", h.create)
	rg.POST("/screenings/bulk", h.createBulk)
	rg.GET("/screenings", h.list)
	rg.GET("/screenings/:id", h.get)
	rg.GET("/batches/:id", h.getBatch)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription is required", nil)
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" && req.DocumentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeText or documentId is required", nil)
		return
	}

	screening, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		ResumeText:     req.ResumeText,
		DocumentID:     req.DocumentID,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyResume), errors.Is(err, parser.ErrEmptyText):
			respond.Error(c, http.StatusBadRequest, "validation_error", "resume text is empty", nil)
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to screen resume", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toScreeningResponse(screening))
}

func (h *Handler) createBulk(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription is required", nil)
		return
	}
	if len(req.Resumes) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumes is required", nil)
		return
	}
	if len(req.Resumes) > maxBatchSize {
		respond.Error(c, http.StatusBadRequest, "validation_error", "too many resumes in one batch", []map[string]string{
			{"field": "resumes", "issue": "max " + strconv.Itoa(maxBatchSize)},
		})
		return
	}

	resumes := make([]BatchResume, 0, len(req.Resumes))
	for _, r := range req.Resumes {
		resumes = append(resumes, BatchResume{
			Label:      r.Label,
			ResumeText: r.ResumeText,
			DocumentID: r.DocumentID,
		})
	}

	batch, err := h.Svc.CreateBatch(c.Request.Context(), userID, req.JobTitle, req.JobDescription, resumes)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyBatch):
			respond.Error(c, http.StatusBadRequest, "validation_error", "resumes is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to screen batch", nil)
		}
		return
	}

	if batch.Status != StatusCompleted {
		// queued for the worker; poll the batch endpoint for results
		respond.JSON(c, http.StatusAccepted, gin.H{
			"batchId": batch.ID,
			"status":  batch.Status,
			"total":   batch.Total,
		})
		return
	}

	_, ranked, failed, err := h.Svc.GetBatch(c.Request.Context(), userID, batch.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to rank batch", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toBatchResponse(batch, ranked, failed))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	screeningID := c.Param("id")

	screening, err := h.Svc.Get(c.Request.Context(), userID, screeningID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "screening not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch screening", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toScreeningResponse(screening))
}

func (h *Handler) getBatch(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	batchID := c.Param("id")

	batch, ranked, failed, err := h.Svc.GetBatch(c.Request.Context(), userID, batchID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBatchNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "batch not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch batch", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toBatchResponse(batch, ranked, failed))
}

func (h *Handler) list(c *gin.Context) {
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view history", nil)
			return
		}
	}

	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list screenings", nil)
		return
	}

	resp := make([]gin.H, 0, len(items))
	for _, s := range items {
		resp = append(resp, toListItem(s))
	}
	respond.JSON(c, http.StatusOK, resp)
}
