package handlers

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"teamchat/internal/metrics"
	"teamchat/internal/services"
	"teamchat/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// UploadHandler serves the two-step upload flow: an authenticated request for a signed
// URL, then an unauthenticated POST of the raw bytes to that URL.
type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

// RegisterRoutes mounts the authenticated upload-URL endpoint.
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/url", h.GenerateUploadURL)
}

// RegisterPublicRoutes mounts the token-authorized upload and the local file route.
func (h *UploadHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/:token", h.Upload)
	rg.GET("/files/*path", h.ServeFile)
}

// GenerateUploadURL godoc
// @Summary Get a short-lived upload URL
// @Tags uploads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UploadURLResponse
// @Router /uploads/url [post]
func (h *UploadHandler) GenerateUploadURL(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.uploadService.GenerateUploadURL(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Upload godoc
// @Summary Upload raw bytes to a signed URL
// @Description The body is the file itself; Content-Type must be an allowed type.
// @Tags uploads
// @Accept octet-stream
// @Produce json
// @Param token path string true "Signed upload token"
// @Success 201 {object} dto.UploadResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 413 {object} apperrors.ErrorResponse
// @Failure 415 {object} apperrors.ErrorResponse
// @Router /uploads/{token} [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	resp, err := h.uploadService.Store(
		c.Request.Context(),
		h.GetDB(c),
		c.Param("token"),
		c.ContentType(),
		c.Request.Body,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if c.Request.ContentLength > 0 {
		metrics.UploadBytes.Add(float64(c.Request.ContentLength))
	}
	c.JSON(http.StatusCreated, resp)
}

// ServeFile streams an object from local storage.
func (h *UploadHandler) ServeFile(c *gin.Context) {
	objectPath := strings.TrimPrefix(c.Param("path"), "/")
	if objectPath == "" {
		apperrors.HandleError(c, apperrors.ErrUploadNotFound)
		return
	}

	reader, err := h.uploadService.Open(c.Request.Context(), objectPath)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(path.Ext(objectPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.DataFromReader(http.StatusOK, -1, contentType, reader, nil)
}
