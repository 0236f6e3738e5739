package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/estateflow/inventorybackend/database"
)

// ProgressHandler serves the per-room capture progress report.
type ProgressHandler struct {
	DB *sql.DB
}

func (ph *ProgressHandler) GetRoomProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := database.GetRoomPhotoProgress(ph.DB)
	if err != nil {
		log.Printf("Error querying room photo progress: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve progress"})
		return
	}
	if progress == nil {
		progress = []database.RoomPhotoProgress{}
	}
	writeJSON(w, http.StatusOK, progress)
}
