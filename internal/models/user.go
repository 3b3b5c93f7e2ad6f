package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account record. Only AvatarURL matters to the media store: it
// can point at a file under the upload directory, so the orphan reconciler
// includes it in the referenced set.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"size:30;uniqueIndex" json:"username"`
	Email    string    `gorm:"size:255;uniqueIndex" json:"email"`

	AvatarURL string `gorm:"size:512" json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
