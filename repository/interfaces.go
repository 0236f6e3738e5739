package repository

import (
	"github.com/google/uuid"

	"github.com/estateflow/inventorybackend/capture"
	"github.com/estateflow/inventorybackend/media"
	"github.com/estateflow/inventorybackend/models"
)

// RoomRepositoryInterface defines the methods for room data operations
type RoomRepositoryInterface interface {
	Create(room *models.Room) error
	GetByID(id uuid.UUID) (*models.Room, error)
	ListAll() ([]models.Room, error)
	Update(room *models.Room) error
	Delete(id uuid.UUID) error
}

// ItemRepositoryInterface defines the methods for item data operations
type ItemRepositoryInterface interface {
	Create(item *models.Item) error
	GetByID(id uuid.UUID) (*models.Item, error)
	ListAll() ([]models.Item, error)
	ListByRoom(roomID uuid.UUID) ([]models.Item, error)
	Update(item *models.Item) error
	Delete(id uuid.UUID) error
	AddImage(image *models.ItemImage) error
	ListImages(itemID uuid.UUID) ([]models.ItemImage, error)
}

// PhotoRepositoryInterface defines the methods for photo data operations
type PhotoRepositoryInterface interface {
	Create(photo *models.PhotoUpload) error
	GetByID(id uuid.UUID) (*models.PhotoUpload, error)
	ListBySession(sessionID uuid.UUID) ([]models.PhotoUpload, error)
	MarkTaskProcessing(id uuid.UUID, taskStatusColumn string) error
	UpdateVersionsResult(id uuid.UUID, thumbPath, webPath *string, taskErr error) error
	UpdateMetadataResult(id uuid.UUID, meta *media.Metadata, taskErr error) error
	AssignToItem(id uuid.UUID, itemID uuid.UUID, angle string) error
	Delete(id uuid.UUID) error
}

// SessionRepositoryInterface defines the methods for photo session snapshots
type SessionRepositoryInterface interface {
	SaveSession(s *capture.Session) error
	GetByID(id uuid.UUID) (*models.PhotoSession, error)
	ListAll() ([]models.PhotoSession, error)
}

// MatchRepositoryInterface defines the methods for confirmed photo matches
type MatchRepositoryInterface interface {
	Upsert(match *models.PhotoMatch) error
	GetByCandidateID(candidateID string) (*models.PhotoMatch, error)
	ListByItem(itemID uuid.UUID) ([]models.PhotoMatch, error)
}
