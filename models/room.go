package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FloorLevel labels the floor a room belongs to.
type FloorLevel string

const (
	FloorLower   FloorLevel = "Lower Level"
	FloorMain    FloorLevel = "Main Floor"
	FloorUpper   FloorLevel = "Upper Floor"
	FloorOutdoor FloorLevel = "Outdoor"
	FloorGarage  FloorLevel = "Garage"
)

// Room represents a room of the property in the database using GORM.
// It corresponds to the 'rooms' table.
type Room struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"not null;unique" json:"name"`
	Floor       FloorLevel     `gorm:"not null" json:"floor"`
	Description *string        `gorm:"" json:"description,omitempty"` // Nullable
	CreatedAt   int64          `gorm:"not null" json:"created_at"`    // Unix timestamp
	UpdatedAt   int64          `gorm:"not null" json:"updated_at"`    // Unix timestamp
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Items []Item `gorm:"foreignKey:RoomID" json:"items,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Room) TableName() string {
	return "rooms"
}
