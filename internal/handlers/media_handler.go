package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wayspot/backend/internal/config"
	"github.com/wayspot/backend/internal/models"
	"github.com/wayspot/backend/internal/services"
	"github.com/wayspot/backend/pkg/validation"
)

type MediaHandler struct {
	mediaService     *services.MediaService
	reconcileService *services.ReconcileService
	cfg              *config.Config
}

func NewMediaHandler(mediaService *services.MediaService, reconcileService *services.ReconcileService, cfg *config.Config) *MediaHandler {
	return &MediaHandler{
		mediaService:     mediaService,
		reconcileService: reconcileService,
		cfg:              cfg,
	}
}

// statusForError maps store errors onto HTTP statuses: fetch failures point
// at the remote host, write failures at our disk, the rest at the caller
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidEntityType):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrFetchFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func assetResponse(asset *models.MediaAsset) gin.H {
	return gin.H{
		"id":          asset.ID,
		"entity_type": asset.EntityType,
		"entity_id":   asset.EntityID,
		"url":         asset.URL,
		"is_primary":  asset.IsPrimary,
		"order_index": asset.OrderIndex,
		"created_at":  asset.CreatedAt,
	}
}

// UploadImage handles a direct file upload for an entity
// POST /:entityType/:entityId/images
// Multipart form: file (required), is_primary (optional, "true"/"false")
func (h *MediaHandler) UploadImage(c *gin.Context) {
	entityType := models.EntityType(c.Param("entityType"))
	entityID := c.Param("entityId")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		return
	}

	// size ceiling and content sniff are the boundary's job; the pipeline
	// below does not re-check them
	if int64(len(data)) > h.cfg.UploadMaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
		return
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content type: expected image"})
		return
	}

	requestedPrimary := c.PostForm("is_primary") == "true"
	originalName := validation.SanitizeFilename(header.Filename)

	asset, err := h.mediaService.IngestFile(c.Request.Context(), entityType, entityID, data, originalName, requestedPrimary)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, assetResponse(asset))
}

// IngestImageURL localizes a remotely hosted image for an entity
// POST /:entityType/:entityId/images/url
func (h *MediaHandler) IngestImageURL(c *gin.Context) {
	entityType := models.EntityType(c.Param("entityType"))
	entityID := c.Param("entityId")

	var req struct {
		URL       string `json:"url" binding:"required"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	if !validation.ValidateRemoteURL(req.URL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute http(s) URL"})
		return
	}

	asset, err := h.mediaService.IngestURL(c.Request.Context(), entityType, entityID, req.URL, req.IsPrimary)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, assetResponse(asset))
}

// ListImages returns an entity's assets, primary first then display order
// GET /:entityType/:entityId/images
func (h *MediaHandler) ListImages(c *gin.Context) {
	entityType := models.EntityType(c.Param("entityType"))
	entityID := c.Param("entityId")

	assets, err := h.mediaService.ListByEntity(c.Request.Context(), entityType, entityID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	list := make([]gin.H, len(assets))
	for i := range assets {
		list[i] = assetResponse(&assets[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"images": list,
		"total":  len(list),
	})
}

// SetPrimary marks an asset as its entity's primary image
// PUT /images/:id/primary
func (h *MediaHandler) SetPrimary(c *gin.Context) {
	assetID, err := parseAssetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image ID"})
		return
	}

	asset, err := h.mediaService.SetPrimary(c.Request.Context(), assetID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assetResponse(asset))
}

// UnsetPrimary clears an asset's primary flag without promoting another
// DELETE /images/:id/primary
func (h *MediaHandler) UnsetPrimary(c *gin.Context) {
	assetID, err := parseAssetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image ID"})
		return
	}

	asset, err := h.mediaService.UnsetPrimary(c.Request.Context(), assetID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assetResponse(asset))
}

// DeleteImage removes an asset and, best-effort, its backing file
// DELETE /images/:id
func (h *MediaHandler) DeleteImage(c *gin.Context) {
	assetID, err := parseAssetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image ID"})
		return
	}

	if err := h.mediaService.Delete(c.Request.Context(), assetID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted successfully"})
}

// Reconcile runs the orphan sweep and reports its counts verbatim
// POST /admin/media/reconcile
func (h *MediaHandler) Reconcile(c *gin.Context) {
	report, err := h.reconcileService.Reconcile(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kept":    report.Kept,
		"deleted": report.Deleted,
		"errors":  report.Errors,
	})
}

func parseAssetID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
