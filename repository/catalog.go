package repository

import (
	"github.com/google/uuid"

	"github.com/estateflow/inventorybackend/models"
)

// Catalog adapts the room and item repositories to the read-only view the
// capture tracker needs.
type Catalog struct {
	Rooms RoomRepositoryInterface
	Items ItemRepositoryInterface
}

// NewCatalog creates a catalog over the given repositories
func NewCatalog(rooms RoomRepositoryInterface, items ItemRepositoryInterface) *Catalog {
	return &Catalog{Rooms: rooms, Items: items}
}

func (c *Catalog) RoomByID(id uuid.UUID) (*models.Room, error) {
	return c.Rooms.GetByID(id)
}

func (c *Catalog) ItemsByRoom(roomID uuid.UUID) ([]models.Item, error) {
	return c.Items.ListByRoom(roomID)
}
