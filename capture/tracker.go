package capture

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/estateflow/inventorybackend/matcher"
	"github.com/estateflow/inventorybackend/models"
)

var (
	// ErrNoActiveSession is returned by every operation that needs a live
	// session when none exists (never started, or already ended).
	ErrNoActiveSession = errors.New("capture: no active session")
	// ErrSessionExists is returned by Start while another session is live.
	ErrSessionExists = errors.New("capture: a session is already in progress")
	// ErrRoomNotFound is returned by Start for an unknown room.
	ErrRoomNotFound = errors.New("capture: room not found")
	// ErrRoomEmpty is returned by Start for a room with no items.
	ErrRoomEmpty = errors.New("capture: room has no items")
	// ErrNotActive rejects captures and pauses while the session is paused.
	ErrNotActive = errors.New("capture: session is not active")
	// ErrNotPaused rejects Resume while the session is active.
	ErrNotPaused = errors.New("capture: session is not paused")
	// ErrInvalidAngle rejects viewpoints outside the fixed vocabulary.
	ErrInvalidAngle = errors.New("capture: invalid angle")
)

// Catalog supplies the read-only room and item lists. This package never
// mutates catalog data.
type Catalog interface {
	RoomByID(id uuid.UUID) (*models.Room, error)
	ItemsByRoom(roomID uuid.UUID) ([]models.Item, error)
}

// Saver receives a session snapshot after every mutating operation and is
// responsible for durable storage.
type Saver interface {
	SaveSession(s *Session) error
}

// Uploader receives captured photos for asynchronous upload. The tracker does
// not wait for completion; upload status is tracked externally.
type Uploader interface {
	EnqueueUpload(photo CapturedPhoto)
}

// Options tune a Tracker. The zero value disables auto-advance and
// auto-upload.
type Options struct {
	// AutoAdvance is the delay before moving to the next item after a
	// capture, leaving time for a confirmation preview. Zero disables it.
	AutoAdvance time.Duration
	// AutoUpload hands every capture to the Uploader immediately.
	AutoUpload bool
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Tracker drives one guided capture session at a time. All methods are safe
// for concurrent use; operations without a live session fail with
// ErrNoActiveSession instead of silently doing nothing.
type Tracker struct {
	catalog  Catalog
	saver    Saver
	uploader Uploader
	opts     Options

	mu      sync.Mutex
	session *Session

	// generation invalidates a scheduled auto-advance whenever any other
	// mutating operation lands first
	generation   uint64
	advanceTimer *time.Timer
}

// NewTracker wires the state machine to its collaborators. saver and
// uploader may be nil when persistence or uploading is handled elsewhere.
func NewTracker(catalog Catalog, saver Saver, uploader Uploader, opts Options) *Tracker {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{catalog: catalog, saver: saver, uploader: uploader, opts: opts}
}

// Start begins a session for the given room. The room must exist and contain
// at least one item, and no other session may be live.
func (t *Tracker) Start(roomID uuid.UUID) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session != nil {
		return nil, ErrSessionExists
	}

	room, err := t.catalog.RoomByID(roomID)
	if err != nil || room == nil {
		return nil, ErrRoomNotFound
	}
	items, err := t.catalog.ItemsByRoom(roomID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrRoomEmpty
	}

	itemIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	now := t.opts.Now()
	t.session = &Session{
		ID:           uuid.New(),
		RoomID:       room.ID,
		RoomName:     room.Name,
		ItemIDs:      itemIDs,
		ItemsTotal:   len(itemIDs),
		CurrentAngle: matcher.DefaultAngle,
		StartTime:    now,
		LastSaveTime: now,
		Status:       StatusActive,
		Photos:       make(map[uuid.UUID][]CapturedPhoto),
	}
	t.generation++
	t.save()
	return t.session.clone(), nil
}

// Session returns a snapshot of the live session.
func (t *Tracker) Session() (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil, ErrNoActiveSession
	}
	return t.session.clone(), nil
}

// RecordCapture appends a photo to the session, persists the snapshot, hands
// the photo to the uploader and, when configured, schedules the deferred
// advance to the next item.
func (t *Tracker) RecordCapture(photo CapturedPhoto) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return nil, ErrNoActiveSession
	}
	if t.session.Status != StatusActive {
		return nil, ErrNotActive
	}
	if photo.Angle == "" {
		photo.Angle = t.session.CurrentAngle
	}
	if photo.Timestamp.IsZero() {
		photo.Timestamp = t.opts.Now()
	}

	s := t.session
	s.Photos[photo.ItemID] = append(s.Photos[photo.ItemID], photo)
	s.PhotosCaptured++
	if photo.ItemID == s.CurrentItemID() {
		s.CurrentItemPhotos++
	}
	s.LastSaveTime = t.opts.Now()

	t.bump()
	t.save()

	if t.opts.AutoUpload && t.uploader != nil {
		t.uploader.EnqueueUpload(photo)
	}

	if t.opts.AutoAdvance > 0 {
		gen := t.generation
		t.advanceTimer = time.AfterFunc(t.opts.AutoAdvance, func() {
			t.deferredAdvance(gen)
		})
	}

	return s.clone(), nil
}

// deferredAdvance fires after the preview delay. It is dropped when any other
// mutating operation happened first, so the walk can never double-advance.
func (t *Tracker) deferredAdvance(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil || t.session.Status != StatusActive || t.generation != gen {
		return
	}
	t.navigate(1)
}

// SelectAngle changes the viewpoint for the current item.
func (t *Tracker) SelectAngle(angle matcher.Angle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return ErrNoActiveSession
	}
	if !matcher.IsValidAngle(string(angle)) {
		return ErrInvalidAngle
	}
	t.session.CurrentAngle = angle
	t.session.LastSaveTime = t.opts.Now()
	t.bump()
	t.save()
	return nil
}

// Advance moves to the next item, clamping at the last one.
func (t *Tracker) Advance() (*Session, error) {
	return t.step(1)
}

// Retreat moves to the previous item, clamping at the first one.
func (t *Tracker) Retreat() (*Session, error) {
	return t.step(-1)
}

func (t *Tracker) step(delta int) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil, ErrNoActiveSession
	}
	t.bump()
	t.navigate(delta)
	return t.session.clone(), nil
}

// navigate clamps the index and resets the per-item transient state. Callers
// hold the lock.
func (t *Tracker) navigate(delta int) {
	s := t.session
	idx := s.CurrentItemIndex + delta
	if idx < 0 {
		idx = 0
	}
	if idx > s.ItemsTotal-1 {
		idx = s.ItemsTotal - 1
	}
	s.CurrentItemIndex = idx
	s.CurrentItemPhotos = 0
	s.CurrentAngle = matcher.DefaultAngle
	s.LastSaveTime = t.opts.Now()
	t.save()
}

// Pause suspends an active session.
func (t *Tracker) Pause() (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil, ErrNoActiveSession
	}
	if t.session.Status != StatusActive {
		return nil, ErrNotActive
	}
	t.session.Status = StatusPaused
	t.session.LastSaveTime = t.opts.Now()
	t.bump()
	t.save()
	return t.session.clone(), nil
}

// Resume reactivates a paused session. Counters, index and photos are left
// untouched.
func (t *Tracker) Resume() (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil, ErrNoActiveSession
	}
	if t.session.Status != StatusPaused {
		return nil, ErrNotPaused
	}
	t.session.Status = StatusActive
	t.session.LastSaveTime = t.opts.Now()
	t.bump()
	t.save()
	return t.session.clone(), nil
}

// End completes the session, persists the final snapshot and drops the
// in-memory state. No further operations are valid until Start is called
// again.
func (t *Tracker) End() (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil, ErrNoActiveSession
	}
	t.session.Status = StatusCompleted
	t.session.LastSaveTime = t.opts.Now()
	t.bump()
	t.save()
	final := t.session.clone()
	t.session = nil
	return final, nil
}

// bump invalidates any pending deferred advance. Callers hold the lock.
func (t *Tracker) bump() {
	t.generation++
	if t.advanceTimer != nil {
		t.advanceTimer.Stop()
		t.advanceTimer = nil
	}
}

// save hands the current snapshot to the persistence collaborator. Callers
// hold the lock. Persistence failures are logged, not surfaced: losing one
// snapshot must not abort the walk.
func (t *Tracker) save() {
	if t.saver == nil || t.session == nil {
		return
	}
	if err := t.saver.SaveSession(t.session.clone()); err != nil {
		log.Printf("capture: failed to persist session %s: %v", t.session.ID, err)
	}
}
