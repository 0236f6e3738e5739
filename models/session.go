package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session status values persisted for photo sessions.
const (
	SessionActive    = "active"
	SessionPaused    = "paused"
	SessionCompleted = "completed"
)

// PhotoSession represents a persisted snapshot of a guided capture session.
// It corresponds to the 'photo_sessions' table. The live state machine lives
// in the capture package; every mutation writes a snapshot here.
type PhotoSession struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"room_id"`
	RoomName         string         `gorm:"not null" json:"room_name"`
	Status           string         `gorm:"not null;default:active" json:"status"`
	ItemsTotal       int            `gorm:"not null" json:"items_total"`
	ItemsCaptured    int            `gorm:"not null;default:0" json:"items_captured"`
	PhotosCaptured   int            `gorm:"not null;default:0" json:"photos_captured"`
	CurrentItemIndex int            `gorm:"not null;default:0" json:"current_item_index"`
	StartedAt        int64          `gorm:"not null" json:"started_at"`     // Unix timestamp
	LastSavedAt      int64          `gorm:"not null" json:"last_saved_at"`  // Unix timestamp
	CompletedAt      *int64         `gorm:"" json:"completed_at,omitempty"` // Nullable, Unix timestamp
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Room   *Room         `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Photos []PhotoUpload `gorm:"foreignKey:SessionID" json:"photos,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (PhotoSession) TableName() string {
	return "photo_sessions"
}
