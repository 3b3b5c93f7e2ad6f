package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wayspot/backend/internal/models"
	"github.com/wayspot/backend/internal/services"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateSpot creates a spot listing
// POST /spots
func (h *ListingHandler) CreateSpot(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		City        string `json:"city"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	spot := &models.Spot{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		ImageURL:    req.ImageURL,
	}
	if err := h.listingService.CreateSpot(c.Request.Context(), spot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, spot)
}

// GetSpot returns a spot listing
// GET /spots/:id
func (h *ListingHandler) GetSpot(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spot ID"})
		return
	}

	spot, err := h.listingService.GetSpotByID(c.Request.Context(), spotID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "spot not found"})
		return
	}

	c.JSON(http.StatusOK, spot)
}

// DeleteSpot removes a spot and its media assets
// DELETE /spots/:id
func (h *ListingHandler) DeleteSpot(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid spot ID"})
		return
	}

	if err := h.listingService.DeleteSpot(c.Request.Context(), spotID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "spot deleted successfully"})
}

// CreateLandmark creates a landmark listing
// POST /landmarks
func (h *ListingHandler) CreateLandmark(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Region      string `json:"region"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	landmark := &models.Landmark{
		Name:        req.Name,
		Description: req.Description,
		Region:      req.Region,
		ImageURL:    req.ImageURL,
	}
	if err := h.listingService.CreateLandmark(c.Request.Context(), landmark); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, landmark)
}

// GetLandmark returns a landmark listing
// GET /landmarks/:id
func (h *ListingHandler) GetLandmark(c *gin.Context) {
	landmarkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid landmark ID"})
		return
	}

	landmark, err := h.listingService.GetLandmarkByID(c.Request.Context(), landmarkID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "landmark not found"})
		return
	}

	c.JSON(http.StatusOK, landmark)
}

// DeleteLandmark removes a landmark and its media assets
// DELETE /landmarks/:id
func (h *ListingHandler) DeleteLandmark(c *gin.Context) {
	landmarkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid landmark ID"})
		return
	}

	if err := h.listingService.DeleteLandmark(c.Request.Context(), landmarkID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "landmark deleted successfully"})
}
