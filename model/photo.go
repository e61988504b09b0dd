package model

import "time"

type Photo struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"index;not null" json:"-"`

	// Object storage key, namespaced as users/{userID}/{photoID}.{ext}.
	// The thumbnail key is derived from it and never stored
	FilePath string `gorm:"unique;not null" json:"-"`

	// Original file name before it was turned into an object key
	Filename string `json:"filename"`
	Caption  *string `json:"caption"`

	UploadDate time.Time `gorm:"index" json:"upload_date"`

	// Sanitized EXIF as a JSON object, nil when the image had none or
	// couldn't be decoded
	ExifData *string `json:"-"`

	// Object size recorded at upload time so gallery listings don't have
	// to stat every object on every request
	SizeBytes int64 `json:"size_bytes"`

	IsDeleted  bool `gorm:"default:false;index" json:"is_deleted"`
	IsFavorite bool `gorm:"default:false" json:"is_favorite"`
}
