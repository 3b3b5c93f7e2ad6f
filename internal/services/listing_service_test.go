package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/wayspot/backend/internal/models"
)

func TestDeleteSpotCascadesIntoMediaAssets(t *testing.T) {
	media, db, cfg := newMediaTestService(t)
	listings := NewListingService(db, media)
	ctx := context.Background()

	spot := &models.Spot{Name: "Harbor View", City: "Lisbon"}
	if err := listings.CreateSpot(ctx, spot); err != nil {
		t.Fatalf("create spot failed: %v", err)
	}

	if _, err := media.IngestFile(ctx, models.EntityTypeSpot, spot.ID.String(), []byte("a"), "a.png", false); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if _, err := media.IngestFile(ctx, models.EntityTypeSpot, spot.ID.String(), []byte("b"), "b.png", false); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if err := listings.DeleteSpot(ctx, spot.ID); err != nil {
		t.Fatalf("delete spot failed: %v", err)
	}

	var n int64
	db.Model(&models.MediaAsset{}).Count(&n)
	if n != 0 {
		t.Fatalf("media assets survived entity deletion: %d", n)
	}

	entries, _ := os.ReadDir(cfg.UploadDir)
	if len(entries) != 0 {
		t.Fatalf("backing files survived entity deletion: %d", len(entries))
	}
}

func TestDeleteUnknownSpotReturnsNotFound(t *testing.T) {
	media, db, _ := newMediaTestService(t)
	listings := NewListingService(db, media)

	if err := listings.DeleteSpot(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateSpotRequiresName(t *testing.T) {
	media, db, _ := newMediaTestService(t)
	listings := NewListingService(db, media)

	if err := listings.CreateSpot(context.Background(), &models.Spot{}); err == nil {
		t.Fatalf("expected error for unnamed spot")
	}
}
