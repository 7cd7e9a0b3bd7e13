package runs

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signaldrift-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the runs service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches run routes to the router group. The analyse route
// is registered separately so the caller can throttle it.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/runs", h.list)
	rg.GET("/runs/:id", h.get)
}

// RegisterAnalyseRoute attaches the analyse route with the given extra middleware.
func (h *Handler) RegisterAnalyseRoute(rg *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, middleware...), h.analyse)
	rg.POST("/analyse", handlers...)
}

type analyseRequest struct {
	PromptID         string `json:"prompt_id"`
	DocumentFilename string `json:"document_filename"`
}

func (h *Handler) analyse(c *gin.Context) {
	var req analyseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.PromptID = strings.TrimSpace(req.PromptID)
	req.DocumentFilename = strings.TrimSpace(req.DocumentFilename)
	if req.PromptID == "" || req.DocumentFilename == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "prompt_id and document_filename are required", nil)
		return
	}
	c.Set("documentFilename", req.DocumentFilename)

	run, err := h.Svc.Analyse(c.Request.Context(), req.PromptID, req.DocumentFilename)
	if err != nil {
		switch {
		case errors.Is(err, ErrProviderNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "provider_not_configured", "analysis provider not configured", nil)
		case errors.Is(err, ErrPromptNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "prompt not found", nil)
		case errors.Is(err, ErrDocumentNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to run analysis", nil)
		}
		return
	}

	c.Set("runId", run.ID)
	c.Set("runStatus", run.Status)

	// 201 regardless of the run's internal status: the analysis request was
	// accepted and processed even when the analysis itself failed.
	respond.JSON(c, http.StatusCreated, run)
}

func (h *Handler) get(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "run id is required", nil)
		return
	}

	run, err := h.Svc.Get(c.Request.Context(), runID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "run not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch run", nil)
		}
		return
	}

	respond.OK(c, run)
}

func (h *Handler) list(c *gin.Context) {
	documentFilename := strings.TrimSpace(c.Query("document_filename"))

	runs, err := h.Svc.List(c.Request.Context(), documentFilename)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list runs", nil)
		return
	}

	respond.OK(c, gin.H{"runs": runs})
}
