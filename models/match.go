package models

import "github.com/google/uuid"

// PhotoMatch records an accepted assignment of an uploaded file to a catalog
// item. It corresponds to the 'photo_matches' table. Exactly one match exists
// per upload candidate; re-assigning replaces the previous row.
type PhotoMatch struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID string    `gorm:"not null;uniqueIndex" json:"candidate_id"` // unique per upload batch
	PhotoID     uuid.UUID `gorm:"type:uuid;not null" json:"photo_id"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Angle       string    `gorm:"not null" json:"angle"`
	Confidence  int       `gorm:"not null;default:0" json:"confidence"`
	Auto        bool      `gorm:"not null;default:false" json:"auto"`
	Confirmed   bool      `gorm:"not null;default:false" json:"confirmed"`
	CreatedAt   int64     `gorm:"not null" json:"created_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (PhotoMatch) TableName() string {
	return "photo_matches"
}
