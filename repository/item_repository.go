package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estateflow/inventorybackend/models"
)

// ItemRepository handles database operations for Item entities
type ItemRepository struct {
	DB *gorm.DB
}

// NewItemRepository creates a new instance of ItemRepository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

// Create creates a new item record in the database
func (r *ItemRepository) Create(item *models.Item) error {
	now := time.Now().Unix()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	if item.UpdatedAt == 0 {
		item.UpdatedAt = now
	}
	if item.Category == "" {
		item.Category = models.CategoryOther
	}

	if err := r.DB.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item %s: %w", item.Name, err)
	}
	return nil
}

// GetByID retrieves an item by its ID, with its images preloaded
func (r *ItemRepository) GetByID(id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.DB.Preload("Images").First(&item, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get item %s: %w", id, err)
	}
	return &item, nil
}

// ListAll retrieves the full catalog with images preloaded, in insertion
// order so heuristic tie-breaking is deterministic
func (r *ItemRepository) ListAll() ([]models.Item, error) {
	var items []models.Item
	err := r.DB.Preload("Images").Order("created_at ASC, id ASC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// ListByRoom retrieves the items of one room, in walk order
func (r *ItemRepository) ListByRoom(roomID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.Preload("Images").Where("room_id = ?", roomID).Order("created_at ASC, id ASC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items for room %s: %w", roomID, err)
	}
	return items, nil
}

// Update saves changes to an existing item
func (r *ItemRepository) Update(item *models.Item) error {
	item.UpdatedAt = time.Now().Unix()
	if err := r.DB.Save(item).Error; err != nil {
		return fmt.Errorf("failed to update item %s: %w", item.ID, err)
	}
	return nil
}

// Delete soft-deletes an item
func (r *ItemRepository) Delete(id uuid.UUID) error {
	result := r.DB.Delete(&models.Item{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddImage links a stored photo to an item
func (r *ItemRepository) AddImage(image *models.ItemImage) error {
	if image.UploadedAt == 0 {
		image.UploadedAt = time.Now().Unix()
	}
	if err := r.DB.Create(image).Error; err != nil {
		return fmt.Errorf("failed to add image for item %s: %w", image.ItemID, err)
	}
	return nil
}

// ListImages retrieves an item's images in upload order
func (r *ItemRepository) ListImages(itemID uuid.UUID) ([]models.ItemImage, error) {
	var images []models.ItemImage
	err := r.DB.Where("item_id = ?", itemID).Order("uploaded_at ASC, id ASC").Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images for item %s: %w", itemID, err)
	}
	return images, nil
}
