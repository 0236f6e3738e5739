package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhotoUpload represents a stored photo in the database using GORM.
// It corresponds to the 'photo_uploads' table. Derived versions (thumbnail,
// web) are produced asynchronously by the photo worker pool.
type PhotoUpload struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    *uuid.UUID `gorm:"type:uuid;index" json:"session_id,omitempty"` // Nullable, set for guided captures
	ItemID       *uuid.UUID `gorm:"type:uuid;index" json:"item_id,omitempty"`    // Nullable until assigned
	Filename     string     `gorm:"not null;unique" json:"filename"`             // generated storage name
	OriginalName string     `gorm:"not null" json:"original_name"`
	MimeType     string     `gorm:"not null" json:"mime_type"`
	SizeBytes    int64      `gorm:"not null" json:"size_bytes"`
	Angle        *string    `gorm:"" json:"angle,omitempty"` // Nullable

	Width  *int `gorm:"" json:"width,omitempty"`  // Nullable
	Height *int `gorm:"" json:"height,omitempty"` // Nullable

	// EXIF metadata, populated by the metadata task
	TakenAt      *int64   `gorm:"index" json:"taken_at,omitempty"` // Nullable, Unix timestamp
	CameraMake   *string  `gorm:"" json:"camera_make,omitempty"`   // Nullable
	CameraModel  *string  `gorm:"" json:"camera_model,omitempty"`  // Nullable
	Aperture     *float64 `gorm:"" json:"aperture,omitempty"`      // Nullable, F-number
	ShutterSpeed *string  `gorm:"" json:"shutter_speed,omitempty"` // Nullable, e.g., "1/125s"
	ISO          *int     `gorm:"" json:"iso,omitempty"`           // Nullable
	Latitude     *float64 `gorm:"" json:"latitude,omitempty"`      // Nullable
	Longitude    *float64 `gorm:"" json:"longitude,omitempty"`     // Nullable

	ThumbnailPath *string `gorm:"" json:"thumbnail_path,omitempty"` // Nullable
	WebPath       *string `gorm:"" json:"web_path,omitempty"`       // Nullable

	VersionsStatus string `gorm:"not null;default:pending" json:"versions_status"`
	MetadataStatus string `gorm:"not null;default:pending" json:"metadata_status"`

	VersionsProcessedAt *int64 `gorm:"" json:"versions_processed_at,omitempty"` // Nullable, Unix timestamp
	MetadataProcessedAt *int64 `gorm:"" json:"metadata_processed_at,omitempty"` // Nullable, Unix timestamp

	VersionsError *string `gorm:"" json:"versions_error,omitempty"` // Nullable
	MetadataError *string `gorm:"" json:"metadata_error,omitempty"` // Nullable

	UploadedAt int64          `gorm:"not null" json:"uploaded_at"` // Unix timestamp
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (PhotoUpload) TableName() string {
	return "photo_uploads"
}
