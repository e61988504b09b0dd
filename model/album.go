package model

import "time"

type Album struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"index;not null" json:"-"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Photos []AlbumPhoto `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"-"`
}

// AlbumPhoto links a photo to an album. The composite primary key keeps
// membership idempotent, deleting a link never deletes the photo
type AlbumPhoto struct {
	AlbumID string `gorm:"primaryKey" json:"album_id"`
	PhotoID string `gorm:"primaryKey" json:"photo_id"`
}
