package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"

	"github.com/wayspot/backend/internal/config"
	"github.com/wayspot/backend/internal/models"
	"gorm.io/gorm"
)

// MediaService owns the media-asset store: ingestion of uploaded and remote
// images, the single-primary-per-entity invariant, ordering and deletion.
type MediaService struct {
	db     *gorm.DB
	cfg    *config.Config
	blobs  *BlobStore
	client *http.Client
}

func NewMediaService(db *gorm.DB, cfg *config.Config, blobs *BlobStore) *MediaService {
	return &MediaService{
		db:    db,
		cfg:   cfg,
		blobs: blobs,
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
	}
}

// IngestFile stores uploaded image bytes and registers a MediaAsset for the
// given entity. The first asset of an entity is always made primary; after
// that the caller's requestedPrimary flag is taken as-is. Size and
// content-type ceilings are the upload handler's concern, not re-checked here.
func (s *MediaService) IngestFile(ctx context.Context, entityType models.EntityType, entityID string, data []byte, originalName string, requestedPrimary bool) (*models.MediaAsset, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file data")
	}

	fileURL, err := s.blobs.Write(data, originalName)
	if err != nil {
		return nil, err
	}

	return s.register(ctx, entityType, entityID, fileURL, requestedPrimary)
}

// IngestURL fetches an externally hosted image and localizes it into the
// store, so asset availability no longer depends on the third-party host.
// The download is buffered in memory; nothing is written on a failed fetch.
func (s *MediaService) IngestURL(ctx context.Context, entityType models.EntityType, entityID string, sourceURL string, requestedPrimary bool) (*models.MediaAsset, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrFetchFailure, resp.StatusCode, sourceURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}

	fileURL, err := s.blobs.Write(data, remoteFilename(sourceURL))
	if err != nil {
		return nil, err
	}

	return s.register(ctx, entityType, entityID, fileURL, requestedPrimary)
}

// remoteFilename derives a filename suggestion from the final path segment of
// the source URL, falling back to a generic name
func remoteFilename(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return "image"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}

// register persists the MediaAsset row. OrderIndex is max+1 within the entity
// (0 for the first asset); a concurrent-ingest tie on OrderIndex is tolerated
// since it is only a display hint.
func (s *MediaService) register(ctx context.Context, entityType models.EntityType, entityID string, fileURL string, requestedPrimary bool) (*models.MediaAsset, error) {
	asset := &models.MediaAsset{
		EntityType: entityType,
		EntityID:   entityID,
		URL:        fileURL,
		IsPrimary:  requestedPrimary,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.MediaAsset{}).
			Where("entity_type = ? AND entity_id = ?", entityType, entityID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			// the first asset is always the primary, whatever was requested
			asset.IsPrimary = true
			asset.OrderIndex = 0
			return tx.Create(asset).Error
		}

		var maxOrder int
		if err := tx.Model(&models.MediaAsset{}).
			Where("entity_type = ? AND entity_id = ?", entityType, entityID).
			Select("COALESCE(MAX(order_index), -1)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		asset.OrderIndex = maxOrder + 1

		// ingesting a new primary demotes the current one in the same
		// transaction, keeping the single-primary invariant at every commit
		if asset.IsPrimary {
			if err := tx.Model(&models.MediaAsset{}).
				Where("entity_type = ? AND entity_id = ? AND is_primary = ?", entityType, entityID, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(asset).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create media asset record: %w", err)
	}

	return asset, nil
}

// SetPrimary makes the given asset the sole primary of its entity. The unset
// and set run in one transaction so the invariant holds at every commit
// point. Calling it on the current primary is a no-op.
func (s *MediaService) SetPrimary(ctx context.Context, assetID uint) (*models.MediaAsset, error) {
	var asset models.MediaAsset

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&asset, assetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&models.MediaAsset{}).
			Where("entity_type = ? AND entity_id = ? AND id <> ? AND is_primary = ?",
				asset.EntityType, asset.EntityID, asset.ID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		if !asset.IsPrimary {
			if err := tx.Model(&asset).Update("is_primary", true).Error; err != nil {
				return err
			}
			asset.IsPrimary = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

// UnsetPrimary clears the primary flag unconditionally. No other asset is
// promoted in its place, so an entity can end up with assets but no primary;
// that matches the documented behavior of the store.
func (s *MediaService) UnsetPrimary(ctx context.Context, assetID uint) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	if err := s.db.WithContext(ctx).First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&asset).Update("is_primary", false).Error; err != nil {
		return nil, err
	}
	asset.IsPrimary = false
	return &asset, nil
}

// Delete removes the asset row and attempts to unlink the backing file. The
// row is the source of truth: a missing or un-removable file is logged and
// never fails the deletion.
func (s *MediaService) Delete(ctx context.Context, assetID uint) error {
	var asset models.MediaAsset
	if err := s.db.WithContext(ctx).First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.removeBackingFile(asset.URL)

	if err := s.db.WithContext(ctx).Delete(&asset).Error; err != nil {
		return fmt.Errorf("failed to delete media asset record: %w", err)
	}
	return nil
}

// DeleteForEntity removes every asset of an entity, files included. Entity
// handlers call this as part of deleting a spot or landmark; the store itself
// does not watch for entity deletions.
func (s *MediaService) DeleteForEntity(ctx context.Context, entityType models.EntityType, entityID string) (int, error) {
	if !entityType.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}

	var assets []models.MediaAsset
	if err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Find(&assets).Error; err != nil {
		return 0, err
	}

	for _, asset := range assets {
		s.removeBackingFile(asset.URL)
	}

	if len(assets) > 0 {
		if err := s.db.WithContext(ctx).
			Where("entity_type = ? AND entity_id = ?", entityType, entityID).
			Delete(&models.MediaAsset{}).Error; err != nil {
			return 0, err
		}
	}
	return len(assets), nil
}

// removeBackingFile unlinks the file behind a local asset URL, best-effort.
// Only the file-already-missing case is expected; other unlink errors are
// still logged for the operator but never propagate.
func (s *MediaService) removeBackingFile(assetURL string) {
	localPath := s.blobs.LocalPath(assetURL)
	if localPath == "" {
		return
	}
	if err := os.Remove(localPath); err != nil {
		if os.IsNotExist(err) {
			log.Printf("WARN: media file already missing: %s", localPath)
		} else {
			log.Printf("WARN: failed to remove media file %s: %v", localPath, err)
		}
	}
}

// ListByEntity returns all assets of an entity, primary first and then in
// display order (the listing/detail page read path).
func (s *MediaService) ListByEntity(ctx context.Context, entityType models.EntityType, entityID string) ([]models.MediaAsset, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}

	var assets []models.MediaAsset
	if err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("is_primary DESC, order_index ASC, id ASC").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// GetByID returns a single asset by id
func (s *MediaService) GetByID(ctx context.Context, assetID uint) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	if err := s.db.WithContext(ctx).First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}
