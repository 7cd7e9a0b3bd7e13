package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"signaldrift-backend/internal/docstore"
	"signaldrift-backend/internal/shared/server/respond"
)

const maxUploadSize = 25 << 20 // 25MB, ESG reports run large

// Handler wires HTTP handlers to the documents service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.DELETE("/documents/:filename", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Filename == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "filename is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	stored, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, docstore.ErrInvalidName):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		case errors.Is(err, docstore.ErrDisallowedExtension):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store document", nil)
		}
		return
	}

	c.Set("documentFilename", stored.Name)
	respond.JSON(c, http.StatusCreated, gin.H{
		"filename":      stored.Name,
		"original_name": stored.OriginalName,
		"size":          stored.Size,
	})
}

func (h *Handler) list(c *gin.Context) {
	files, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	resp := make([]gin.H, 0, len(files))
	for _, f := range files {
		resp = append(resp, gin.H{
			"filename":    f.Name,
			"size":        f.Size,
			"uploaded_at": f.UploadedAt,
		})
	}

	respond.OK(c, gin.H{"files": resp})
}

func (h *Handler) remove(c *gin.Context) {
	filename := c.Param("filename")

	err := h.Svc.Delete(c.Request.Context(), filename)
	if err != nil {
		switch {
		case errors.Is(err, docstore.ErrInvalidName):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		case errors.Is(err, docstore.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		}
		return
	}

	c.Set("documentFilename", filename)
	respond.OK(c, gin.H{"deleted": filename})
}
