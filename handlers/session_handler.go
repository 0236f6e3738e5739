package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estateflow/inventorybackend/capture"
	"github.com/estateflow/inventorybackend/config"
	"github.com/estateflow/inventorybackend/matcher"
	"github.com/estateflow/inventorybackend/media"
	"github.com/estateflow/inventorybackend/models"
	"github.com/estateflow/inventorybackend/realtime"
	"github.com/estateflow/inventorybackend/repository"
)

// SessionHandler exposes the guided capture session over HTTP. The live state
// machine is the capture.Tracker; this handler translates requests, stores
// incoming photo files and broadcasts session changes.
type SessionHandler struct {
	Tracker  *capture.Tracker
	Sessions repository.SessionRepositoryInterface
	Photos   repository.PhotoRepositoryInterface
	Store    media.Store
	Hub      *realtime.Hub
	Cfg      config.Config
}

// sessionError maps tracker sentinel errors onto HTTP responses.
func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, capture.ErrNoActiveSession):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No active capture session"})
	case errors.Is(err, capture.ErrSessionExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "A capture session is already in progress"})
	case errors.Is(err, capture.ErrRoomNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Room not found"})
	case errors.Is(err, capture.ErrRoomEmpty):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Room has no items to capture"})
	case errors.Is(err, capture.ErrNotActive):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Session is not active"})
	case errors.Is(err, capture.ErrNotPaused):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Session is not paused"})
	case errors.Is(err, capture.ErrInvalidAngle):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid angle"})
	default:
		log.Printf("Session operation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Session operation failed"})
	}
}

func (sh *SessionHandler) broadcastSession(s *capture.Session) {
	if sh.Hub == nil || s == nil {
		return
	}
	event := realtime.NewEvent(realtime.EventSessionUpdated)
	sessionID := s.ID
	event.SessionID = &sessionID
	event.Status = string(s.Status)
	event.Extra = map[string]interface{}{
		"progress": capture.ProgressOf(s, time.Now()),
	}
	sh.Hub.Broadcast(event)
}

func (sh *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID string `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid room_id: must be a UUID"})
		return
	}

	session, err := sh.Tracker.Start(roomID)
	if err != nil {
		sessionError(w, err)
		return
	}
	sh.broadcastSession(session)
	writeJSON(w, http.StatusCreated, session)
}

func (sh *SessionHandler) GetCurrentSession(w http.ResponseWriter, r *http.Request) {
	session, err := sh.Tracker.Session()
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (sh *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := sh.Sessions.ListAll()
	if err != nil {
		log.Printf("Error listing sessions: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve sessions"})
		return
	}
	if sessions == nil {
		sessions = []models.PhotoSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (sh *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "sessionID")
	if !ok {
		return
	}
	session, err := sh.Sessions.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
			return
		}
		log.Printf("Error fetching session %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve session"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// RecordPhoto ingests one capture for the live session: the file is stored,
// a photo record is created and the state machine records the capture.
// Expects multipart form data with a 'photo' file field.
func (sh *SessionHandler) RecordPhoto(w http.ResponseWriter, r *http.Request) {
	live, err := sh.Tracker.Session()
	if err != nil {
		sessionError(w, err)
		return
	}

	maxBytes := int64(sh.Cfg.MaxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Failed to parse multipart form: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing 'photo' file field"})
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") || !media.IsRasterImage(header.Filename) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "File must be an image"})
		return
	}

	itemID := live.CurrentItemID()
	if raw := r.FormValue("item_id"); raw != "" {
		itemID, err = uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid item_id: must be a UUID"})
			return
		}
	}

	angle := matcher.Angle(r.FormValue("angle"))
	if angle != "" && !matcher.IsValidAngle(string(angle)) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid angle"})
		return
	}

	photoID := uuid.New()
	storageName := fmt.Sprintf("%s%s", photoID, strings.ToLower(filepath.Ext(header.Filename)))
	relPath, err := sh.Store.Save(media.AssetTypeFull, storageName, file)
	if err != nil {
		log.Printf("Error storing capture %s: %v", header.Filename, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store photo"})
		return
	}

	record := models.PhotoUpload{
		ID:           photoID,
		SessionID:    &live.ID,
		ItemID:       &itemID,
		Filename:     relPath,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		SizeBytes:    header.Size,
	}
	if angle != "" {
		angleStr := string(angle)
		record.Angle = &angleStr
	}
	if err := sh.Photos.Create(&record); err != nil {
		log.Printf("Error creating photo record for %s: %v", header.Filename, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to record photo"})
		return
	}

	session, err := sh.Tracker.RecordCapture(capture.CapturedPhoto{
		ID:       photoID,
		ItemID:   itemID,
		Angle:    angle,
		Filename: relPath,
		Meta:     capture.PhotoMeta{SizeBytes: header.Size},
	})
	if err != nil {
		sessionError(w, err)
		return
	}

	if sh.Hub != nil {
		event := realtime.NewEvent(realtime.EventPhotoUploaded)
		event.PhotoID = &photoID
		event.SessionID = &session.ID
		event.ItemID = &itemID
		sh.Hub.Broadcast(event)
	}
	sh.broadcastSession(session)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"photo":   record,
		"session": session,
	})
}

// ListSessionPhotos returns the stored photo records of a persisted session.
func (sh *SessionHandler) ListSessionPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "sessionID")
	if !ok {
		return
	}
	photos, err := sh.Photos.ListBySession(id)
	if err != nil {
		log.Printf("Error listing photos for session %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve photos"})
		return
	}
	if photos == nil {
		photos = []models.PhotoUpload{}
	}
	writeJSON(w, http.StatusOK, photos)
}

func (sh *SessionHandler) SelectAngle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Angle string `json:"angle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := sh.Tracker.SelectAngle(matcher.Angle(req.Angle)); err != nil {
		sessionError(w, err)
		return
	}
	session, err := sh.Tracker.Session()
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (sh *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	session, err := sh.Tracker.Advance()
	if err != nil {
		sessionError(w, err)
		return
	}
	sh.broadcastSession(session)
	writeJSON(w, http.StatusOK, session)
}

func (sh *SessionHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	session, err := sh.Tracker.Retreat()
	if err != nil {
		sessionError(w, err)
		return
	}
	sh.broadcastSession(session)
	writeJSON(w, http.StatusOK, session)
}

func (sh *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	session, err := sh.Tracker.Pause()
	if err != nil {
		sessionError(w, err)
		return
	}
	sh.broadcastSession(session)
	writeJSON(w, http.StatusOK, session)
}

func (sh *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	session, err := sh.Tracker.Resume()
	if err != nil {
		sessionError(w, err)
		return
	}
	sh.broadcastSession(session)
	writeJSON(w, http.StatusOK, session)
}

func (sh *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	session, err := sh.Tracker.End()
	if err != nil {
		sessionError(w, err)
		return
	}
	sh.broadcastSession(session)
	writeJSON(w, http.StatusOK, session)
}

// GetProgress returns the derived progress view of the live session.
func (sh *SessionHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	session, err := sh.Tracker.Session()
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, capture.ProgressOf(session, time.Now()))
}
