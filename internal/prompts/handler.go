package prompts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"signaldrift-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the prompts service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches prompt routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/prompts", h.list)
	rg.POST("/prompts", h.create)
}

func (h *Handler) list(c *gin.Context) {
	prompts, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list prompts", nil)
		return
	}
	respond.OK(c, gin.H{"prompts": prompts})
}

type createPromptRequest struct {
	Text string `json:"text"`
}

func (h *Handler) create(c *gin.Context) {
	var req createPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	prompt, err := h.Svc.Create(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create prompt", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, prompt)
}
