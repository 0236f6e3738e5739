package repository

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/estateflow/inventorybackend/capture"
	"github.com/estateflow/inventorybackend/models"
)

// SessionRepository persists capture sessions. It satisfies capture.Saver so
// the tracker can checkpoint state after every mutation.
type SessionRepository struct {
	DB *gorm.DB
}

// NewSessionRepository creates a new instance of SessionRepository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// SaveSession upserts the database row mirroring an in-memory session
func (r *SessionRepository) SaveSession(s *capture.Session) error {
	row := models.PhotoSession{
		ID:               s.ID,
		RoomID:           s.RoomID,
		RoomName:         s.RoomName,
		Status:           string(s.Status),
		ItemsTotal:       s.ItemsTotal,
		ItemsCaptured:    s.ItemsCaptured(),
		PhotosCaptured:   s.PhotosCaptured,
		CurrentItemIndex: s.CurrentItemIndex,
		StartedAt:        s.StartTime.Unix(),
		LastSavedAt:      s.LastSaveTime.Unix(),
	}
	if s.Status == capture.StatusCompleted {
		completedAt := s.LastSaveTime.Unix()
		row.CompletedAt = &completedAt
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "items_total", "items_captured", "photos_captured",
			"current_item_index", "last_saved_at", "completed_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

// GetByID retrieves a session row by its ID
func (r *SessionRepository) GetByID(id uuid.UUID) (*models.PhotoSession, error) {
	var session models.PhotoSession
	err := r.DB.First(&session, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return &session, nil
}

// ListAll retrieves all session rows, most recent first
func (r *SessionRepository) ListAll() ([]models.PhotoSession, error) {
	var sessions []models.PhotoSession
	err := r.DB.Order("started_at DESC").Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
