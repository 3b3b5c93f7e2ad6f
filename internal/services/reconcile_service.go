package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/wayspot/backend/internal/config"
	"github.com/wayspot/backend/internal/models"
	"gorm.io/gorm"
)

// ReconcileReport summarizes one orphan sweep for the operator
type ReconcileReport struct {
	Kept    int `json:"kept"`
	Deleted int `json:"deleted"`
	Errors  int `json:"errors"`
}

// ReconcileService removes files in the upload directory that no tracked
// table references anymore. It reads the database but never mutates it, and
// it only ever deletes files it positively recognizes as images.
type ReconcileService struct {
	db    *gorm.DB
	cfg   *config.Config
	blobs *BlobStore
}

func NewReconcileService(db *gorm.DB, cfg *config.Config, blobs *BlobStore) *ReconcileService {
	return &ReconcileService{
		db:    db,
		cfg:   cfg,
		blobs: blobs,
	}
}

// Reconcile sweeps the upload directory and deletes unreferenced image files.
// Per-file removal failures are counted and the sweep continues; with no
// intervening writes a second run deletes nothing.
func (s *ReconcileService) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	referenced, err := s.referencedURLs(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to collect referenced urls: %w", err)
	}

	entries, err := os.ReadDir(s.cfg.UploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return report, nil
		}
		return report, fmt.Errorf("failed to read upload dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// only files recognized as images are candidates for deletion
		if !IsImageExt(name) {
			continue
		}

		if _, ok := referenced[s.blobs.PublicURL(name)]; ok {
			report.Kept++
			continue
		}

		if err := os.Remove(filepath.Join(s.cfg.UploadDir, name)); err != nil {
			log.Printf("WARN: reconcile failed to remove %s: %v", name, err)
			report.Errors++
			continue
		}
		report.Deleted++
	}

	log.Printf("Media reconcile complete: kept=%d deleted=%d errors=%d",
		report.Kept, report.Deleted, report.Errors)
	return report, nil
}

// referencedURLs unions every column that can hold a local image URL. The
// table list is fixed: media_assets plus the denormalized main-image caches
// on spots and landmarks and the account avatar field.
func (s *ReconcileService) referencedURLs(ctx context.Context) (map[string]struct{}, error) {
	referenced := make(map[string]struct{})

	collect := func(model interface{}, column string) error {
		var urls []string
		if err := s.db.WithContext(ctx).Model(model).
			Where(column+" <> ''").
			Pluck(column, &urls).Error; err != nil {
			return err
		}
		for _, u := range urls {
			referenced[u] = struct{}{}
		}
		return nil
	}

	if err := collect(&models.MediaAsset{}, "url"); err != nil {
		return nil, err
	}
	if err := collect(&models.Spot{}, "image_url"); err != nil {
		return nil, err
	}
	if err := collect(&models.Landmark{}, "image_url"); err != nil {
		return nil, err
	}
	if err := collect(&models.User{}, "avatar_url"); err != nil {
		return nil, err
	}

	return referenced, nil
}
