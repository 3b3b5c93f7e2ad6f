package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Spot represents a tourist spot listing
type Spot struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:2000" json:"description"`
	City        string    `gorm:"size:120" json:"city"`

	// ImageURL is the denormalized main-image cache, populated at creation
	// time. It is not kept in lockstep with MediaAsset.IsPrimary; the orphan
	// reconciler still has to treat it as a live reference.
	ImageURL string `gorm:"size:512" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Spot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
