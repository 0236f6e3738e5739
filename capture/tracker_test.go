package capture

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estateflow/inventorybackend/matcher"
	"github.com/estateflow/inventorybackend/models"
)

type fakeCatalog struct {
	rooms map[uuid.UUID]*models.Room
	items map[uuid.UUID][]models.Item
}

func (c *fakeCatalog) RoomByID(id uuid.UUID) (*models.Room, error) {
	return c.rooms[id], nil
}

func (c *fakeCatalog) ItemsByRoom(roomID uuid.UUID) ([]models.Item, error) {
	return c.items[roomID], nil
}

type recordingSaver struct {
	mu        sync.Mutex
	snapshots []*Session
}

func (s *recordingSaver) SaveSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, session)
	return nil
}

func (s *recordingSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

type recordingUploader struct {
	mu     sync.Mutex
	photos []CapturedPhoto
}

func (u *recordingUploader) EnqueueUpload(photo CapturedPhoto) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.photos = append(u.photos, photo)
}

// newTestCatalog builds a catalog with one room holding n items.
func newTestCatalog(n int) (*fakeCatalog, uuid.UUID) {
	roomID := uuid.New()
	room := &models.Room{ID: roomID, Name: "Living Room", Floor: models.FloorMain}
	items := make([]models.Item, n)
	for i := range items {
		items[i] = models.Item{ID: uuid.New(), RoomID: roomID, Name: "Item", Category: models.CategoryOther}
	}
	return &fakeCatalog{
		rooms: map[uuid.UUID]*models.Room{roomID: room},
		items: map[uuid.UUID][]models.Item{roomID: items},
	}, roomID
}

func TestStartValidations(t *testing.T) {
	catalog, roomID := newTestCatalog(3)
	emptyRoomID := uuid.New()
	catalog.rooms[emptyRoomID] = &models.Room{ID: emptyRoomID, Name: "Closet"}

	tr := NewTracker(catalog, nil, nil, Options{})

	_, err := tr.Start(uuid.New())
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = tr.Start(emptyRoomID)
	assert.ErrorIs(t, err, ErrRoomEmpty)

	_, err = tr.Start(roomID)
	require.NoError(t, err)

	_, err = tr.Start(roomID)
	assert.ErrorIs(t, err, ErrSessionExists)
}

func TestStartInitialState(t *testing.T) {
	catalog, roomID := newTestCatalog(3)
	saver := &recordingSaver{}
	tr := NewTracker(catalog, saver, nil, Options{})

	s, err := tr.Start(roomID)
	require.NoError(t, err)

	assert.Equal(t, roomID, s.RoomID)
	assert.Equal(t, "Living Room", s.RoomName)
	assert.Equal(t, 3, s.ItemsTotal)
	assert.Equal(t, 0, s.CurrentItemIndex)
	assert.Equal(t, matcher.DefaultAngle, s.CurrentAngle)
	assert.Equal(t, StatusActive, s.Status)
	assert.Equal(t, 0, s.PhotosCaptured)
	assert.Equal(t, 1, saver.count())
}

func TestNoActiveSession(t *testing.T) {
	catalog, _ := newTestCatalog(3)
	tr := NewTracker(catalog, nil, nil, Options{})

	_, err := tr.Session()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = tr.RecordCapture(CapturedPhoto{})
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = tr.Advance()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = tr.Retreat()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = tr.Pause()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = tr.Resume()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	_, err = tr.End()
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.ErrorIs(t, tr.SelectAngle(matcher.AngleMain), ErrNoActiveSession)
}

func TestRecordCaptureCounts(t *testing.T) {
	catalog, roomID := newTestCatalog(3)
	tr := NewTracker(catalog, &recordingSaver{}, nil, Options{})

	s, err := tr.Start(roomID)
	require.NoError(t, err)
	itemID := s.CurrentItemID()

	for i := 0; i < 3; i++ {
		s, err = tr.RecordCapture(CapturedPhoto{ID: uuid.New(), ItemID: itemID})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, s.PhotosCaptured)
	assert.Equal(t, 3, s.CurrentItemPhotos)
	assert.Equal(t, 1, s.ItemsCaptured())
	require.Len(t, s.Photos[itemID], 3)

	// captures default to the selected angle and a timestamp
	assert.Equal(t, matcher.DefaultAngle, s.Photos[itemID][0].Angle)
	assert.False(t, s.Photos[itemID][0].Timestamp.IsZero())
}

func TestNavigationClamps(t *testing.T) {
	catalog, roomID := newTestCatalog(3)
	tr := NewTracker(catalog, nil, nil, Options{})

	_, err := tr.Start(roomID)
	require.NoError(t, err)

	var s *Session
	for i := 0; i < 5; i++ {
		s, err = tr.Advance()
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.CurrentItemIndex)

	for i := 0; i < 5; i++ {
		s, err = tr.Retreat()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, s.CurrentItemIndex)
}

func TestNavigationResetsPerItemState(t *testing.T) {
	catalog, roomID := newTestCatalog(3)
	tr := NewTracker(catalog, nil, nil, Options{})

	s, err := tr.Start(roomID)
	require.NoError(t, err)

	require.NoError(t, tr.SelectAngle(matcher.AngleDetail))
	_, err = tr.RecordCapture(CapturedPhoto{ID: uuid.New(), ItemID: s.CurrentItemID()})
	require.NoError(t, err)

	s, err = tr.Advance()
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentItemIndex)
	assert.Equal(t, 0, s.CurrentItemPhotos)
	assert.Equal(t, matcher.DefaultAngle, s.CurrentAngle)
	// the global counter and photo log are untouched by navigation
	assert.Equal(t, 1, s.PhotosCaptured)
	assert.Equal(t, 1, s.ItemsCaptured())
}

func TestSelectAngleValidation(t *testing.T) {
	catalog, roomID := newTestCatalog(1)
	tr := NewTracker(catalog, nil, nil, Options{})

	_, err := tr.Start(roomID)
	require.NoError(t, err)

	assert.ErrorIs(t, tr.SelectAngle("overhead"), ErrInvalidAngle)
	require.NoError(t, tr.SelectAngle(matcher.AngleLabel))

	s, err := tr.Session()
	require.NoError(t, err)
	assert.Equal(t, matcher.AngleLabel, s.CurrentAngle)
}

func TestPauseResume(t *testing.T) {
	catalog, roomID := newTestCatalog(2)
	tr := NewTracker(catalog, nil, nil, Options{})

	s, err := tr.Start(roomID)
	require.NoError(t, err)
	itemID := s.CurrentItemID()

	_, err = tr.RecordCapture(CapturedPhoto{ID: uuid.New(), ItemID: itemID})
	require.NoError(t, err)

	s, err = tr.Pause()
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, s.Status)

	// a paused session rejects captures and a second pause
	_, err = tr.RecordCapture(CapturedPhoto{ID: uuid.New(), ItemID: itemID})
	assert.ErrorIs(t, err, ErrNotActive)
	_, err = tr.Pause()
	assert.ErrorIs(t, err, ErrNotActive)

	s, err = tr.Resume()
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s.Status)
	// counters and position survive the pause
	assert.Equal(t, 1, s.PhotosCaptured)
	assert.Equal(t, 0, s.CurrentItemIndex)

	_, err = tr.Resume()
	assert.ErrorIs(t, err, ErrNotPaused)
}

func TestEndIsTerminal(t *testing.T) {
	catalog, roomID := newTestCatalog(2)
	saver := &recordingSaver{}
	tr := NewTracker(catalog, saver, nil, Options{})

	_, err := tr.Start(roomID)
	require.NoError(t, err)

	final, err := tr.End()
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, final.Status)

	_, err = tr.Session()
	assert.ErrorIs(t, err, ErrNoActiveSession)

	// a new session can start after the previous one ended
	_, err = tr.Start(roomID)
	require.NoError(t, err)
}

func TestAutoUploadHandsOffCaptures(t *testing.T) {
	catalog, roomID := newTestCatalog(2)
	uploader := &recordingUploader{}
	tr := NewTracker(catalog, nil, uploader, Options{AutoUpload: true})

	s, err := tr.Start(roomID)
	require.NoError(t, err)

	photo := CapturedPhoto{ID: uuid.New(), ItemID: s.CurrentItemID(), Filename: "full/a.jpg"}
	_, err = tr.RecordCapture(photo)
	require.NoError(t, err)

	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	require.Len(t, uploader.photos, 1)
	assert.Equal(t, photo.ID, uploader.photos[0].ID)
}

func TestAutoAdvanceFires(t *testing.T) {
	catalog, roomID := newTestCatalog(3)
	tr := NewTracker(catalog, nil, nil, Options{AutoAdvance: 10 * time.Millisecond})

	s, err := tr.Start(roomID)
	require.NoError(t, err)

	_, err = tr.RecordCapture(CapturedPhoto{ID: uuid.New(), ItemID: s.CurrentItemID()})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		s, err := tr.Session()
		return err == nil && s.CurrentItemIndex == 1
	}, time.Second, 5*time.Millisecond)
}

func TestAutoAdvanceCancelledByNavigation(t *testing.T) {
	catalog, roomID := newTestCatalog(3)
	tr := NewTracker(catalog, nil, nil, Options{AutoAdvance: 50 * time.Millisecond})

	s, err := tr.Start(roomID)
	require.NoError(t, err)

	_, err = tr.RecordCapture(CapturedPhoto{ID: uuid.New(), ItemID: s.CurrentItemID()})
	require.NoError(t, err)

	// an explicit navigation before the delay expires supersedes the
	// scheduled advance
	s, err = tr.Retreat()
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentItemIndex)

	time.Sleep(150 * time.Millisecond)
	s, err = tr.Session()
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentItemIndex)
}

func TestAutoAdvanceCancelledByEnd(t *testing.T) {
	catalog, roomID := newTestCatalog(3)
	tr := NewTracker(catalog, nil, nil, Options{AutoAdvance: 20 * time.Millisecond})

	s, err := tr.Start(roomID)
	require.NoError(t, err)

	_, err = tr.RecordCapture(CapturedPhoto{ID: uuid.New(), ItemID: s.CurrentItemID()})
	require.NoError(t, err)

	_, err = tr.End()
	require.NoError(t, err)

	// the pending advance must not resurrect the ended session
	time.Sleep(80 * time.Millisecond)
	_, err = tr.Session()
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSessionSnapshotsAreIsolated(t *testing.T) {
	catalog, roomID := newTestCatalog(2)
	tr := NewTracker(catalog, nil, nil, Options{})

	s1, err := tr.Start(roomID)
	require.NoError(t, err)

	// mutating a snapshot must not leak into the tracker's state
	s1.CurrentItemIndex = 99
	s1.Photos[uuid.New()] = []CapturedPhoto{{}}

	s2, err := tr.Session()
	require.NoError(t, err)
	assert.Equal(t, 0, s2.CurrentItemIndex)
	assert.Empty(t, s2.Photos)
}
