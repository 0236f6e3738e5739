package matcher

import (
	"errors"
	"fmt"
	"sort"

	"github.com/facette/natsort"
	"github.com/google/uuid"

	"github.com/estateflow/inventorybackend/models"
)

// ErrUnknownCandidate is returned when an assignment references an upload
// candidate that is not (or no longer) part of the batch.
var ErrUnknownCandidate = errors.New("matcher: unknown upload candidate")

// UploadCandidate is a file pending classification within a batch. Hints and
// match candidates are computed once at ingestion and are not recomputed if
// the catalog changes later within the same batch.
type UploadCandidate struct {
	ID         string           `json:"id"`
	Filename   string           `json:"filename"`
	SizeBytes  int64            `json:"size_bytes"`
	Hints      Hints            `json:"hints"`
	Candidates []MatchCandidate `json:"candidates"`
}

// Assignment pairs an upload candidate with the item and angle it was
// accepted for.
type Assignment struct {
	CandidateID string    `json:"candidate_id"`
	ItemID      uuid.UUID `json:"item_id"`
	Angle       Angle     `json:"angle"`
	Confidence  int       `json:"confidence"`
	Auto        bool      `json:"auto"`
	Confirmed   bool      `json:"confirmed"`
}

// Batch holds one bulk-upload round: the upload candidates, their scored
// suggestions and the accepted assignments. Every batch carries its own
// identity, and candidate IDs are prefixed with it so they stay unique
// across batches once persisted. It is not safe for concurrent use; callers
// serialize access per batch.
type Batch struct {
	id         string
	items      []models.Item
	rooms      []models.Room
	threshold  int
	candidates []*UploadCandidate
	byID       map[string]*UploadCandidate
	assigned   map[string]*Assignment
	nextID     int
}

// NewBatch creates a batch over a read-only snapshot of the catalog.
// threshold <= 0 selects DefaultAutoAssignThreshold.
func NewBatch(items []models.Item, rooms []models.Room, threshold int) *Batch {
	if threshold <= 0 {
		threshold = DefaultAutoAssignThreshold
	}
	return &Batch{
		id:        uuid.NewString(),
		items:     items,
		rooms:     rooms,
		threshold: threshold,
		byID:      make(map[string]*UploadCandidate),
		assigned:  make(map[string]*Assignment),
		nextID:    1,
	}
}

// ID returns the batch's unique identifier.
func (b *Batch) ID() string {
	return b.id
}

// Add ingests a file into the batch: hints are parsed, matches scored and,
// when the top score clears the threshold, the file is auto-assigned.
func (b *Batch) Add(filename string, sizeBytes int64) *UploadCandidate {
	uc := &UploadCandidate{
		ID:        fmt.Sprintf("%s:upload_%d", b.id, b.nextID),
		Filename:  filename,
		SizeBytes: sizeBytes,
	}
	b.nextID++

	uc.Hints = ParseFilename(filename, b.rooms)
	uc.Candidates = ScoreMatchesWithHints(uc.Hints, b.items, b.rooms)

	if top, ok := AutoAssign(uc.Candidates, b.threshold); ok {
		angle := uc.Hints.Angle
		if angle == "" {
			angle = DefaultAngle
		}
		b.assigned[uc.ID] = &Assignment{
			CandidateID: uc.ID,
			ItemID:      top.Item.ID,
			Angle:       angle,
			Confidence:  top.Score,
			Auto:        true,
		}
	}

	b.candidates = append(b.candidates, uc)
	b.byID[uc.ID] = uc
	return uc
}

// Candidates returns the batch's upload candidates in natural filename order
// (so item-2 sorts before item-10).
func (b *Batch) Candidates() []*UploadCandidate {
	out := make([]*UploadCandidate, len(b.candidates))
	copy(out, b.candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return natsort.Compare(out[i].Filename, out[j].Filename)
	})
	return out
}

// Candidate looks up an upload candidate by ID.
func (b *Batch) Candidate(id string) (*UploadCandidate, bool) {
	uc, ok := b.byID[id]
	return uc, ok
}

// Assignment returns the current assignment for an upload candidate, if any.
func (b *Batch) Assignment(candidateID string) (*Assignment, bool) {
	a, ok := b.assigned[candidateID]
	return a, ok
}

// ManualAssign records a user-chosen item and angle for an upload candidate.
// Exactly one assignment exists per candidate: assigning again overwrites the
// previous one rather than appending.
func (b *Batch) ManualAssign(candidateID string, itemID uuid.UUID, angle Angle) (*Assignment, error) {
	uc, ok := b.byID[candidateID]
	if !ok {
		return nil, ErrUnknownCandidate
	}
	if angle == "" {
		angle = DefaultAngle
	}

	confidence := 0
	for _, mc := range uc.Candidates {
		if mc.Item.ID == itemID {
			confidence = mc.Score
			break
		}
	}

	a := &Assignment{
		CandidateID: candidateID,
		ItemID:      itemID,
		Angle:       angle,
		Confidence:  confidence,
	}
	b.assigned[candidateID] = a
	return a, nil
}

// Unassign drops the assignment for an upload candidate, returning it to
// manual-selection state.
func (b *Batch) Unassign(candidateID string) {
	delete(b.assigned, candidateID)
}

// Remove drops an upload candidate and any assignment it had.
func (b *Batch) Remove(candidateID string) {
	if _, ok := b.byID[candidateID]; !ok {
		return
	}
	delete(b.byID, candidateID)
	delete(b.assigned, candidateID)
	for i, uc := range b.candidates {
		if uc.ID == candidateID {
			b.candidates = append(b.candidates[:i], b.candidates[i+1:]...)
			break
		}
	}
}

// Confirm marks every assignment confirmed and drains the batch. Assignments
// come back in natural filename order of their candidates; unassigned
// candidates are simply dropped.
func (b *Batch) Confirm() []Assignment {
	var out []Assignment
	for _, uc := range b.Candidates() {
		a, ok := b.assigned[uc.ID]
		if !ok {
			continue
		}
		a.Confirmed = true
		out = append(out, *a)
	}
	b.candidates = nil
	b.byID = make(map[string]*UploadCandidate)
	b.assigned = make(map[string]*Assignment)
	return out
}
