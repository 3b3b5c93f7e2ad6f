package models

import (
	"time"
)

// EntityType identifies the kind of entity a media asset belongs to.
// The set is closed: only spots and landmarks carry image galleries.
type EntityType string

const (
	EntityTypeSpot     EntityType = "spot"
	EntityTypeLandmark EntityType = "landmark"
)

// Valid reports whether t is one of the supported entity kinds
func (t EntityType) Valid() bool {
	return t == EntityTypeSpot || t == EntityTypeLandmark
}

// MediaAsset represents one stored image attached to a spot or landmark.
// At most one asset per (entity_type, entity_id) pair may have IsPrimary set;
// the invariant is enforced by MediaService, not by a DB constraint.
type MediaAsset struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EntityType EntityType `gorm:"size:16;not null;index:idx_media_entity" json:"entity_type"`
	EntityID   string     `gorm:"size:64;not null;index:idx_media_entity" json:"entity_id"`
	URL        string     `gorm:"size:512;not null" json:"url"`
	IsPrimary  bool       `gorm:"not null;default:false" json:"is_primary"`
	OrderIndex int        `gorm:"not null;default:0" json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
}
