package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wayspot/backend/internal/config"
	"github.com/wayspot/backend/internal/models"
	"gorm.io/gorm"
)

func newReconcileTest(t *testing.T) (*ReconcileService, *MediaService, *gorm.DB, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		UploadDir:    filepath.Join(t.TempDir(), "uploads"),
		FetchTimeout: 5 * time.Second,
	}
	db := newTestDB(t)
	blobs := NewBlobStore(cfg)
	return NewReconcileService(db, cfg, blobs), NewMediaService(db, cfg, blobs), db, cfg
}

func writeStray(t *testing.T, cfg *config.Config, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cfg.UploadDir, name), []byte("stray"), 0o644); err != nil {
		t.Fatalf("failed to write stray file %s: %v", name, err)
	}
}

func TestReconcileDeletesOrphanedFile(t *testing.T) {
	rec, media, _, cfg := newReconcileTest(t)
	ctx := context.Background()

	asset, err := media.IngestFile(ctx, models.EntityTypeSpot, "s1", []byte("img"), "a.png", false)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	writeStray(t, cfg, "1700000000000-deadbeef.jpg")

	report, err := rec.Reconcile(ctx)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if report.Deleted != 1 {
		t.Fatalf("deleted = %d, want 1", report.Deleted)
	}
	if report.Kept != 1 {
		t.Fatalf("kept = %d, want 1", report.Kept)
	}
	if report.Errors != 0 {
		t.Fatalf("errors = %d, want 0", report.Errors)
	}

	if _, err := os.Stat(media.blobs.LocalPath(asset.URL)); err != nil {
		t.Fatalf("referenced file deleted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.UploadDir, "1700000000000-deadbeef.jpg")); !os.IsNotExist(err) {
		t.Fatalf("orphan still present")
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	rec, media, _, cfg := newReconcileTest(t)
	ctx := context.Background()

	if _, err := media.IngestFile(ctx, models.EntityTypeSpot, "s1", []byte("img"), "a.png", false); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	writeStray(t, cfg, "1700000000000-deadbeef.jpg")

	if _, err := rec.Reconcile(ctx); err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}
	report, err := rec.Reconcile(ctx)
	if err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}
	if report.Deleted != 0 {
		t.Fatalf("second run deleted = %d, want 0", report.Deleted)
	}
}

func TestReconcileSkipsUnrecognizedExtensions(t *testing.T) {
	rec, _, _, cfg := newReconcileTest(t)

	writeStray(t, cfg, "notes.txt")
	writeStray(t, cfg, "dump.sql")

	report, err := rec.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if report.Deleted != 0 || report.Kept != 0 {
		t.Fatalf("non-image files were considered: %+v", report)
	}

	for _, name := range []string{"notes.txt", "dump.sql"} {
		if _, err := os.Stat(filepath.Join(cfg.UploadDir, name)); err != nil {
			t.Fatalf("non-image file %s was touched: %v", name, err)
		}
	}
}

func TestReconcileKeepsDenormalizedEntityReferences(t *testing.T) {
	rec, media, db, _ := newReconcileTest(t)
	ctx := context.Background()

	// a file referenced only by the spot's cached main-image column
	spotURL, err := media.blobs.Write([]byte("spot main"), "main.jpg")
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := db.Create(&models.Spot{Name: "Old Town", ImageURL: spotURL}).Error; err != nil {
		t.Fatalf("create spot failed: %v", err)
	}

	// and one referenced only by an account avatar
	avatarURL, err := media.blobs.Write([]byte("avatar"), "me.png")
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := db.Create(&models.User{Username: "ana", Email: "ana@example.com", AvatarURL: avatarURL}).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	report, err := rec.Reconcile(ctx)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if report.Deleted != 0 {
		t.Fatalf("deleted = %d, want 0", report.Deleted)
	}
	if report.Kept != 2 {
		t.Fatalf("kept = %d, want 2", report.Kept)
	}

	for _, u := range []string{spotURL, avatarURL} {
		if _, err := os.Stat(media.blobs.LocalPath(u)); err != nil {
			t.Fatalf("denormalized reference %s was deleted: %v", u, err)
		}
	}
}

func TestReconcileNeverMutatesDatabase(t *testing.T) {
	rec, media, db, _ := newReconcileTest(t)
	ctx := context.Background()

	asset, err := media.IngestFile(ctx, models.EntityTypeSpot, "s1", []byte("img"), "a.png", false)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	// simulate a lost file: the row must survive the sweep untouched
	if err := os.Remove(media.blobs.LocalPath(asset.URL)); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if _, err := rec.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	var n int64
	db.Model(&models.MediaAsset{}).Count(&n)
	if n != 1 {
		t.Fatalf("asset row count = %d, want 1", n)
	}
}

func TestReconcileMissingUploadDir(t *testing.T) {
	rec, _, _, cfg := newReconcileTest(t)

	if err := os.RemoveAll(cfg.UploadDir); err != nil {
		t.Fatalf("removeall failed: %v", err)
	}

	report, err := rec.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("reconcile on missing dir must not fail: %v", err)
	}
	if report.Kept != 0 || report.Deleted != 0 || report.Errors != 0 {
		t.Fatalf("unexpected report for missing dir: %+v", report)
	}
}
