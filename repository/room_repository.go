package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estateflow/inventorybackend/models"
)

// RoomRepository handles database operations for Room entities
type RoomRepository struct {
	DB *gorm.DB
}

// NewRoomRepository creates a new instance of RoomRepository
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{DB: db}
}

// Create creates a new room record in the database
func (r *RoomRepository) Create(room *models.Room) error {
	now := time.Now().Unix()
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.CreatedAt == 0 {
		room.CreatedAt = now
	}
	if room.UpdatedAt == 0 {
		room.UpdatedAt = now
	}

	if err := r.DB.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room %s: %w", room.Name, err)
	}
	return nil
}

// GetByID retrieves a room by its ID
func (r *RoomRepository) GetByID(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.DB.First(&room, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get room %s: %w", id, err)
	}
	return &room, nil
}

// ListAll retrieves all rooms ordered by floor then name
func (r *RoomRepository) ListAll() ([]models.Room, error) {
	var rooms []models.Room
	err := r.DB.Order("floor ASC, name ASC").Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// Update saves changes to an existing room
func (r *RoomRepository) Update(room *models.Room) error {
	room.UpdatedAt = time.Now().Unix()
	if err := r.DB.Save(room).Error; err != nil {
		return fmt.Errorf("failed to update room %s: %w", room.ID, err)
	}
	return nil
}

// Delete soft-deletes a room
func (r *RoomRepository) Delete(id uuid.UUID) error {
	result := r.DB.Delete(&models.Room{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete room %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
