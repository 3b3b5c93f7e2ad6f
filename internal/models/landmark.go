package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Landmark represents a landmark listing
type Landmark struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:2000" json:"description"`
	Region      string    `gorm:"size:120" json:"region"`

	// Denormalized main-image cache, same caveats as Spot.ImageURL
	ImageURL string `gorm:"size:512" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Landmark) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
