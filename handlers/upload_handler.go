package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/estateflow/inventorybackend/config"
	"github.com/estateflow/inventorybackend/matcher"
	"github.com/estateflow/inventorybackend/media"
	"github.com/estateflow/inventorybackend/models"
	"github.com/estateflow/inventorybackend/realtime"
	"github.com/estateflow/inventorybackend/repository"
	"github.com/estateflow/inventorybackend/workers"
)

// uploadBatch pairs a matcher batch with the stored photo each candidate
// produced, so confirming can link records together.
type uploadBatch struct {
	batch    *matcher.Batch
	photoIDs map[string]uuid.UUID // candidate ID -> stored photo ID
	created  time.Time
}

// UploadHandler drives bulk photo ingestion: files are analyzed against the
// catalog, suggestions reviewed (and overridden) by the user, and the final
// assignments confirmed in one step.
type UploadHandler struct {
	Rooms     repository.RoomRepositoryInterface
	Items     repository.ItemRepositoryInterface
	Photos    repository.PhotoRepositoryInterface
	Matches   repository.MatchRepositoryInterface
	Store     media.Store
	Processor *workers.PhotoProcessor
	Hub       *realtime.Hub
	Cfg       config.Config

	mu      sync.Mutex
	batches map[string]*uploadBatch
}

func NewUploadHandler(rooms repository.RoomRepositoryInterface, items repository.ItemRepositoryInterface, photos repository.PhotoRepositoryInterface, matches repository.MatchRepositoryInterface, store media.Store, processor *workers.PhotoProcessor, hub *realtime.Hub, cfg config.Config) *UploadHandler {
	return &UploadHandler{
		Rooms:     rooms,
		Items:     items,
		Photos:    photos,
		Matches:   matches,
		Store:     store,
		Processor: processor,
		Hub:       hub,
		Cfg:       cfg,
		batches:   make(map[string]*uploadBatch),
	}
}

type batchResponse struct {
	BatchID     string                         `json:"batch_id"`
	Candidates  []*matcher.UploadCandidate     `json:"candidates"`
	Assignments map[string]*matcher.Assignment `json:"assignments"`
}

func (uh *UploadHandler) batchView(id string, ub *uploadBatch) batchResponse {
	resp := batchResponse{
		BatchID:     id,
		Candidates:  ub.batch.Candidates(),
		Assignments: make(map[string]*matcher.Assignment),
	}
	for _, uc := range resp.Candidates {
		if a, ok := ub.batch.Assignment(uc.ID); ok {
			resp.Assignments[uc.ID] = a
		}
	}
	return resp
}

// AnalyzeBatch ingests a multipart upload ('photos' file fields), stores each
// file, scores it against the catalog and returns the suggestions plus any
// auto-assignments for review.
func (uh *UploadHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(uh.Cfg.MaxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Failed to parse multipart form: " + err.Error()})
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["photos"]) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing 'photos' file fields"})
		return
	}

	items, err := uh.Items.ListAll()
	if err != nil {
		log.Printf("Error loading items for upload analysis: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load catalog"})
		return
	}
	rooms, err := uh.Rooms.ListAll()
	if err != nil {
		log.Printf("Error loading rooms for upload analysis: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load catalog"})
		return
	}

	ub := &uploadBatch{
		batch:    matcher.NewBatch(items, rooms, uh.Cfg.AutoMatchThreshold),
		photoIDs: make(map[string]uuid.UUID),
		created:  time.Now(),
	}

	for _, header := range r.MultipartForm.File["photos"] {
		if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") || !media.IsRasterImage(header.Filename) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("File '%s' must be an image", header.Filename)})
			return
		}

		file, err := header.Open()
		if err != nil {
			log.Printf("Error opening upload %s: %v", header.Filename, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read upload"})
			return
		}

		photoID := uuid.New()
		storageName := fmt.Sprintf("%s%s", photoID, strings.ToLower(filepath.Ext(header.Filename)))
		relPath, err := uh.Store.Save(media.AssetTypeFull, storageName, file)
		file.Close()
		if err != nil {
			log.Printf("Error storing upload %s: %v", header.Filename, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store upload"})
			return
		}

		record := models.PhotoUpload{
			ID:           photoID,
			Filename:     relPath,
			OriginalName: header.Filename,
			MimeType:     header.Header.Get("Content-Type"),
			SizeBytes:    header.Size,
		}
		if err := uh.Photos.Create(&record); err != nil {
			log.Printf("Error creating photo record for %s: %v", header.Filename, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to record upload"})
			return
		}

		uc := ub.batch.Add(header.Filename, header.Size)
		ub.photoIDs[uc.ID] = photoID

		if uh.Processor != nil {
			uh.Processor.QueueAllTasks(photoID, relPath)
		}
		if uh.Hub != nil {
			event := realtime.NewEvent(realtime.EventPhotoUploaded)
			event.PhotoID = &photoID
			uh.Hub.Broadcast(event)
		}
	}

	batchID := ub.batch.ID()
	uh.mu.Lock()
	uh.batches[batchID] = ub
	uh.mu.Unlock()

	writeJSON(w, http.StatusCreated, uh.batchView(batchID, ub))
}

func (uh *UploadHandler) lookupBatch(w http.ResponseWriter, r *http.Request) (string, *uploadBatch, bool) {
	batchID := chi.URLParam(r, "batchID")
	uh.mu.Lock()
	ub, ok := uh.batches[batchID]
	uh.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Upload batch not found"})
		return "", nil, false
	}
	return batchID, ub, true
}

// GetBatch returns the current suggestions and assignments of a batch.
func (uh *UploadHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID, ub, ok := uh.lookupBatch(w, r)
	if !ok {
		return
	}
	uh.mu.Lock()
	resp := uh.batchView(batchID, ub)
	uh.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// AssignCandidate records (or clears) a manual assignment for one upload
// candidate. An empty item_id clears the current assignment.
func (uh *UploadHandler) AssignCandidate(w http.ResponseWriter, r *http.Request) {
	_, ub, ok := uh.lookupBatch(w, r)
	if !ok {
		return
	}

	var req struct {
		CandidateID string `json:"candidate_id"`
		ItemID      string `json:"item_id"`
		Angle       string `json:"angle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.CandidateID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: candidate_id"})
		return
	}
	if req.Angle != "" && !matcher.IsValidAngle(req.Angle) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid angle"})
		return
	}

	uh.mu.Lock()
	defer uh.mu.Unlock()

	if req.ItemID == "" {
		if _, ok := ub.batch.Candidate(req.CandidateID); !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Upload candidate not found"})
			return
		}
		ub.batch.Unassign(req.CandidateID)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid item_id: must be a UUID"})
		return
	}

	assignment, err := ub.batch.ManualAssign(req.CandidateID, itemID, matcher.Angle(req.Angle))
	if err != nil {
		if errors.Is(err, matcher.ErrUnknownCandidate) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Upload candidate not found"})
			return
		}
		log.Printf("Error assigning candidate %s: %v", req.CandidateID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to assign candidate"})
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

// ConfirmBatch accepts every assignment in the batch: photos are linked to
// their items, gallery entries created and the match decisions persisted.
// Unassigned candidates are dropped. The batch is gone afterwards.
func (uh *UploadHandler) ConfirmBatch(w http.ResponseWriter, r *http.Request) {
	batchID, ub, ok := uh.lookupBatch(w, r)
	if !ok {
		return
	}

	uh.mu.Lock()
	assignments := ub.batch.Confirm()
	photoIDs := ub.photoIDs
	delete(uh.batches, batchID)
	uh.mu.Unlock()

	confirmed := make([]models.PhotoMatch, 0, len(assignments))
	for _, a := range assignments {
		photoID, ok := photoIDs[a.CandidateID]
		if !ok {
			continue
		}

		angle := string(a.Angle)
		if err := uh.Photos.AssignToItem(photoID, a.ItemID, angle); err != nil {
			log.Printf("Error assigning photo %s to item %s: %v", photoID, a.ItemID, err)
			continue
		}

		match := models.PhotoMatch{
			CandidateID: a.CandidateID,
			PhotoID:     photoID,
			ItemID:      a.ItemID,
			Angle:       angle,
			Confidence:  a.Confidence,
			Auto:        a.Auto,
			Confirmed:   true,
		}
		if err := uh.Matches.Upsert(&match); err != nil {
			log.Printf("Error recording match for photo %s: %v", photoID, err)
		}

		image := models.ItemImage{
			ItemID:  a.ItemID,
			PhotoID: &photoID,
			URL:     "/api/photos/" + pathForPhoto(uh.Photos, photoID),
			Angle:   &angle,
		}
		if thumb := thumbnailForPhoto(uh.Photos, photoID); thumb != nil {
			url := "/api/photos/" + *thumb
			image.ThumbnailURL = &url
		}
		if err := uh.Items.AddImage(&image); err != nil {
			log.Printf("Error adding gallery image for item %s: %v", a.ItemID, err)
		}

		if uh.Hub != nil {
			event := realtime.NewEvent(realtime.EventMatchConfirmed)
			pid := photoID
			iid := a.ItemID
			event.PhotoID = &pid
			event.ItemID = &iid
			uh.Hub.Broadcast(event)
		}
		confirmed = append(confirmed, match)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"confirmed": confirmed,
	})
}

// pathForPhoto resolves the best available store-relative path for links: the
// web version if the pipeline already produced it, the original otherwise.
func pathForPhoto(photos repository.PhotoRepositoryInterface, photoID uuid.UUID) string {
	photo, err := photos.GetByID(photoID)
	if err != nil {
		return photoID.String()
	}
	if photo.WebPath != nil {
		return *photo.WebPath
	}
	return photo.Filename
}

func thumbnailForPhoto(photos repository.PhotoRepositoryInterface, photoID uuid.UUID) *string {
	photo, err := photos.GetByID(photoID)
	if err != nil {
		return nil
	}
	return photo.ThumbnailPath
}
