package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wayspot/backend/internal/models"
	"gorm.io/gorm"
)

// ListingService manages spot and landmark records. It is the collaborator
// that owns entity lifecycles: deleting a listing also tears down its media
// assets, since the media store does not watch for entity deletions itself.
type ListingService struct {
	db    *gorm.DB
	media *MediaService
}

func NewListingService(db *gorm.DB, media *MediaService) *ListingService {
	return &ListingService{db: db, media: media}
}

// CreateSpot creates a spot. ImageURL, when given, seeds the denormalized
// main-image cache; it is set only here, at creation time.
func (s *ListingService) CreateSpot(ctx context.Context, spot *models.Spot) error {
	if spot.Name == "" {
		return errors.New("spot name is required")
	}
	return s.db.WithContext(ctx).Create(spot).Error
}

// CreateLandmark creates a landmark
func (s *ListingService) CreateLandmark(ctx context.Context, landmark *models.Landmark) error {
	if landmark.Name == "" {
		return errors.New("landmark name is required")
	}
	return s.db.WithContext(ctx).Create(landmark).Error
}

// GetSpotByID retrieves a spot by ID
func (s *ListingService) GetSpotByID(ctx context.Context, spotID uuid.UUID) (*models.Spot, error) {
	var spot models.Spot
	if err := s.db.WithContext(ctx).First(&spot, "id = ?", spotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &spot, nil
}

// GetLandmarkByID retrieves a landmark by ID
func (s *ListingService) GetLandmarkByID(ctx context.Context, landmarkID uuid.UUID) (*models.Landmark, error) {
	var landmark models.Landmark
	if err := s.db.WithContext(ctx).First(&landmark, "id = ?", landmarkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &landmark, nil
}

// DeleteSpot removes a spot and cascades into its media assets
func (s *ListingService) DeleteSpot(ctx context.Context, spotID uuid.UUID) error {
	spot, err := s.GetSpotByID(ctx, spotID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(spot).Error; err != nil {
		return err
	}
	_, err = s.media.DeleteForEntity(ctx, models.EntityTypeSpot, spot.ID.String())
	return err
}

// DeleteLandmark removes a landmark and cascades into its media assets
func (s *ListingService) DeleteLandmark(ctx context.Context, landmarkID uuid.UUID) error {
	landmark, err := s.GetLandmarkByID(ctx, landmarkID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(landmark).Error; err != nil {
		return err
	}
	_, err = s.media.DeleteForEntity(ctx, models.EntityTypeLandmark, landmark.ID.String())
	return err
}
