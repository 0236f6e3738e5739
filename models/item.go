package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category enumerates the inventory categories used by the catalog.
type Category string

const (
	CategoryFurniture   Category = "Furniture"
	CategoryArtDecor    Category = "Art / Decor"
	CategoryElectronics Category = "Electronics"
	CategoryLighting    Category = "Lighting"
	CategoryRugCarpet   Category = "Rug / Carpet"
	CategoryOther       Category = "Other"
)

// Item represents a catalog item in the database using GORM.
// It corresponds to the 'items' table.
type Item struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"room_id"`
	Name        string         `gorm:"not null" json:"name"`
	Category    Category       `gorm:"not null;default:'Other'" json:"category"`
	Description *string        `gorm:"" json:"description,omitempty"` // Nullable
	CreatedAt   int64          `gorm:"not null" json:"created_at"`    // Unix timestamp
	UpdatedAt   int64          `gorm:"not null" json:"updated_at"`    // Unix timestamp
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Room   *Room       `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Images []ItemImage `gorm:"foreignKey:ItemID" json:"images,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Item) TableName() string {
	return "items"
}

// ItemImage links a stored photo to a catalog item. It corresponds to the
// 'item_images' table.
type ItemImage struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	PhotoID      *uuid.UUID `gorm:"type:uuid;index" json:"photo_id,omitempty"` // Nullable, set for photos taken by this system
	URL          string     `gorm:"not null" json:"url"`
	ThumbnailURL *string    `gorm:"" json:"thumbnail_url,omitempty"` // Nullable
	Angle        *string    `gorm:"" json:"angle,omitempty"`         // Nullable
	Caption      *string    `gorm:"" json:"caption,omitempty"`       // Nullable
	IsPrimary    bool       `gorm:"not null;default:false" json:"is_primary"`
	UploadedAt   int64      `gorm:"not null" json:"uploaded_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (ItemImage) TableName() string {
	return "item_images"
}
