package files

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexuschat/nexuschat/internal/api/middleware"
	"github.com/nexuschat/nexuschat/internal/domain"
	"github.com/nexuschat/nexuschat/internal/service"
)

// Handler handles file upload and analysis requests
type Handler struct {
	uploadService   *service.UploadService
	analysisService *service.AnalysisService
}

// NewHandler creates a new files handler
func NewHandler(uploadService *service.UploadService, analysisService *service.AnalysisService) *Handler {
	return &Handler{
		uploadService:   uploadService,
		analysisService: analysisService,
	}
}

// RegisterRoutes registers file routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload", h.Upload)
	r.GET("/analyses/:session_id", h.Analyses)
	r.DELETE("/delete_item/:item_id", h.DeleteItem)
	r.POST("/analyze_image/:item_id", h.AnalyzeImage)
}

// Upload ingests and analyzes a file into a session.
func (h *Handler) Upload(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID required"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	resp, err := h.uploadService.Ingest(c.Request.Context(), sessionID, middleware.UserID(c), file.Filename, data)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "File uploaded and analyzed successfully",
		"file_id":            resp.ItemID,
		"filename":           resp.Filename,
		"file_type":          resp.Kind,
		"analyses":           resp.Analyses,
		"analysis_available": resp.AnalysisAvailable,
		"extracted_text":     resp.ExtractedText,
		"vision_preview":     resp.VisionPreview,
	})
}

// Analyses lists a session's analysis records.
func (h *Handler) Analyses(c *gin.Context) {
	analyses, err := h.analysisService.ListForSession(c.Param("session_id"), middleware.UserID(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if analyses == nil {
		analyses = []*domain.SessionAnalysis{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

// DeleteItem removes an uploaded item and its analyses.
func (h *Handler) DeleteItem(c *gin.Context) {
	if err := h.analysisService.DeleteItem(c.Param("item_id"), middleware.UserID(c)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// AnalyzeImage re-runs vision analysis on an uploaded image with a custom
// prompt.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	var req domain.ReanalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.analysisService.Reanalyze(c.Request.Context(), c.Param("item_id"), middleware.UserID(c), req.Prompt)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedType), errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
