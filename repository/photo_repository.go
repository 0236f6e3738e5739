package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estateflow/inventorybackend/database"
	"github.com/estateflow/inventorybackend/media"
	"github.com/estateflow/inventorybackend/models"
)

// PhotoRepository handles database operations for PhotoUpload entities
type PhotoRepository struct {
	DB *gorm.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// Create inserts a photo record with both processing tasks pending
func (r *PhotoRepository) Create(photo *models.PhotoUpload) error {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	if photo.UploadedAt == 0 {
		photo.UploadedAt = time.Now().Unix()
	}
	if photo.VersionsStatus == "" {
		photo.VersionsStatus = database.StatusPending
	}
	if photo.MetadataStatus == "" {
		photo.MetadataStatus = database.StatusPending
	}

	if err := r.DB.Create(photo).Error; err != nil {
		return fmt.Errorf("failed to create photo record %s: %w", photo.Filename, err)
	}
	return nil
}

// GetByID retrieves a photo record by its ID
func (r *PhotoRepository) GetByID(id uuid.UUID) (*models.PhotoUpload, error) {
	var photo models.PhotoUpload
	err := r.DB.First(&photo, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo %s: %w", id, err)
	}
	return &photo, nil
}

// ListBySession retrieves a session's photos in upload order
func (r *PhotoRepository) ListBySession(sessionID uuid.UUID) ([]models.PhotoUpload, error) {
	var photos []models.PhotoUpload
	err := r.DB.Where("session_id = ?", sessionID).Order("uploaded_at ASC, id ASC").Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos for session %s: %w", sessionID, err)
	}
	return photos, nil
}

// MarkTaskProcessing updates a specific task's status to 'processing' and clears its error
func (r *PhotoRepository) MarkTaskProcessing(id uuid.UUID, taskStatusColumn string) error {
	validStatusColumns := map[string]string{
		"versions_status": "versions_error",
		"metadata_status": "metadata_error",
	}

	errorColumn, isValid := validStatusColumns[taskStatusColumn]
	if !isValid {
		return fmt.Errorf("invalid task status column name: %s", taskStatusColumn)
	}

	updates := map[string]interface{}{
		taskStatusColumn: database.StatusProcessing,
		errorColumn:      gorm.Expr("NULL"),
	}

	result := r.DB.Model(&models.PhotoUpload{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to mark task %s processing for %s: %w", taskStatusColumn, id, result.Error)
	}
	return nil
}

// UpdateVersionsResult records the outcome of the version-generation task
func (r *PhotoRepository) UpdateVersionsResult(id uuid.UUID, thumbPath, webPath *string, taskErr error) error {
	now := time.Now().Unix()
	status := database.StatusDone
	var errStr *string
	if taskErr != nil {
		status = database.StatusError
		s := taskErr.Error()
		errStr = &s
	}

	updates := map[string]interface{}{
		"thumbnail_path":        thumbPath,
		"web_path":              webPath,
		"versions_status":       status,
		"versions_processed_at": &now,
		"versions_error":        errStr,
	}

	result := r.DB.Model(&models.PhotoUpload{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update versions result for %s: %w", id, result.Error)
	}
	return nil
}

// UpdateMetadataResult records the outcome of the EXIF metadata task
func (r *PhotoRepository) UpdateMetadataResult(id uuid.UUID, meta *media.Metadata, taskErr error) error {
	now := time.Now().Unix()
	status := database.StatusDone
	var errStr *string
	if taskErr != nil {
		status = database.StatusError
		s := taskErr.Error()
		errStr = &s
	}

	updates := map[string]interface{}{
		"metadata_status":       status,
		"metadata_processed_at": &now,
		"metadata_error":        errStr,
	}
	if meta != nil {
		updates["width"] = meta.Width
		updates["height"] = meta.Height
		updates["taken_at"] = meta.TakenAt
		updates["camera_make"] = meta.CameraMake
		updates["camera_model"] = meta.CameraModel
		updates["aperture"] = meta.Aperture
		updates["shutter_speed"] = meta.ShutterSpeed
		updates["iso"] = meta.ISO
		updates["latitude"] = meta.Latitude
		updates["longitude"] = meta.Longitude
	}

	result := r.DB.Model(&models.PhotoUpload{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update metadata result for %s: %w", id, result.Error)
	}
	return nil
}

// AssignToItem attaches a previously unassigned photo to an item
func (r *PhotoRepository) AssignToItem(id uuid.UUID, itemID uuid.UUID, angle string) error {
	updates := map[string]interface{}{
		"item_id": itemID,
		"angle":   angle,
	}
	result := r.DB.Model(&models.PhotoUpload{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to assign photo %s to item %s: %w", id, itemID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft-deletes a photo record
func (r *PhotoRepository) Delete(id uuid.UUID) error {
	result := r.DB.Delete(&models.PhotoUpload{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete photo %s: %w", id, result.Error)
	}
	return nil
}
