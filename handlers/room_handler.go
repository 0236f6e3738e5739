package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/estateflow/inventorybackend/models"
	"github.com/estateflow/inventorybackend/repository"
)

type RoomHandler struct {
	Rooms repository.RoomRepositoryInterface
	Items repository.ItemRepositoryInterface
}

func (rh *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Floor       string  `json:"floor"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
		return
	}

	room := models.Room{
		Name:        strings.TrimSpace(req.Name),
		Floor:       models.FloorLevel(req.Floor),
		Description: req.Description,
	}
	if room.Floor == "" {
		room.Floor = models.FloorMain
	}

	if err := rh.Rooms.Create(&room); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Room name already exists"})
			return
		}
		log.Printf("Error creating room '%s': %v", room.Name, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create room"})
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (rh *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := rh.Rooms.ListAll()
	if err != nil {
		log.Printf("Error listing rooms: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve rooms"})
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (rh *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "roomID")
	if !ok {
		return
	}
	room, err := rh.Rooms.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Room not found"})
			return
		}
		log.Printf("Error fetching room %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve room"})
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// ListRoomItems returns the room's items in walk order.
func (rh *RoomHandler) ListRoomItems(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "roomID")
	if !ok {
		return
	}
	items, err := rh.Items.ListByRoom(id)
	if err != nil {
		log.Printf("Error listing items for room %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve items"})
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (rh *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "roomID")
	if !ok {
		return
	}
	room, err := rh.Rooms.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Room not found"})
			return
		}
		log.Printf("Error fetching room %s for update: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve room"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Floor       *string `json:"floor"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.Floor != nil {
		room.Floor = models.FloorLevel(*req.Floor)
	}
	if req.Description != nil {
		room.Description = req.Description
	}

	if err := rh.Rooms.Update(room); err != nil {
		log.Printf("Error updating room %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update room"})
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (rh *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "roomID")
	if !ok {
		return
	}
	if err := rh.Rooms.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Room not found"})
			return
		}
		log.Printf("Error deleting room %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete room"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
