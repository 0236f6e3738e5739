package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/estateflow/inventorybackend/models"
)

// MatchRepository handles database operations for PhotoMatch entities
type MatchRepository struct {
	DB *gorm.DB
}

// NewMatchRepository creates a new instance of MatchRepository
func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{DB: db}
}

// Upsert records a match decision for an upload candidate. Re-assigning the
// same candidate replaces the previous decision rather than duplicating it.
func (r *MatchRepository) Upsert(match *models.PhotoMatch) error {
	if match.CreatedAt == 0 {
		match.CreatedAt = time.Now().Unix()
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"photo_id", "item_id", "angle", "confidence", "auto", "confirmed",
		}),
	}).Create(match).Error
	if err != nil {
		return fmt.Errorf("failed to upsert match for candidate %s: %w", match.CandidateID, err)
	}
	return nil
}

// GetByCandidateID retrieves the match decision for an upload candidate
func (r *MatchRepository) GetByCandidateID(candidateID string) (*models.PhotoMatch, error) {
	var match models.PhotoMatch
	err := r.DB.First(&match, "candidate_id = ?", candidateID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get match for candidate %s: %w", candidateID, err)
	}
	return &match, nil
}

// ListByItem retrieves all match decisions pointing at an item
func (r *MatchRepository) ListByItem(itemID uuid.UUID) ([]models.PhotoMatch, error) {
	var matches []models.PhotoMatch
	err := r.DB.Where("item_id = ?", itemID).Order("created_at ASC, id ASC").Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for item %s: %w", itemID, err)
	}
	return matches, nil
}
