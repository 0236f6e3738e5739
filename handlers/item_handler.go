package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estateflow/inventorybackend/models"
	"github.com/estateflow/inventorybackend/repository"
)

type ItemHandler struct {
	Items repository.ItemRepositoryInterface
	Rooms repository.RoomRepositoryInterface
}

func (ih *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID      string  `json:"room_id"`
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.RoomID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields: name and room_id"})
		return
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid room_id: must be a UUID"})
		return
	}
	if _, err := ih.Rooms.GetByID(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "room_id does not reference an existing room"})
			return
		}
		log.Printf("Error verifying room %s during item creation: %v", roomID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Could not verify room"})
		return
	}

	item := models.Item{
		RoomID:      roomID,
		Name:        strings.TrimSpace(req.Name),
		Category:    models.Category(req.Category),
		Description: req.Description,
	}
	if item.Category == "" {
		item.Category = models.CategoryOther
	}

	if err := ih.Items.Create(&item); err != nil {
		log.Printf("Error creating item '%s': %v", item.Name, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create item"})
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (ih *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := ih.Items.ListAll()
	if err != nil {
		log.Printf("Error listing items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve items"})
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (ih *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "itemID")
	if !ok {
		return
	}
	item, err := ih.Items.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
			return
		}
		log.Printf("Error fetching item %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve item"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (ih *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "itemID")
	if !ok {
		return
	}
	item, err := ih.Items.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
			return
		}
		log.Printf("Error fetching item %s for update: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve item"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Category    *string `json:"category"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		item.Category = models.Category(*req.Category)
	}
	if req.Description != nil {
		item.Description = req.Description
	}

	if err := ih.Items.Update(item); err != nil {
		log.Printf("Error updating item %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update item"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (ih *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "itemID")
	if !ok {
		return
	}
	if err := ih.Items.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
			return
		}
		log.Printf("Error deleting item %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete item"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListItemImages returns an item's gallery in upload order.
func (ih *ItemHandler) ListItemImages(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "itemID")
	if !ok {
		return
	}
	images, err := ih.Items.ListImages(id)
	if err != nil {
		log.Printf("Error listing images for item %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve images"})
		return
	}
	if images == nil {
		images = []models.ItemImage{}
	}
	writeJSON(w, http.StatusOK, images)
}
