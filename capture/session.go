package capture

import (
	"time"

	"github.com/google/uuid"

	"github.com/estateflow/inventorybackend/matcher"
)

// Status of a capture session. Completed is terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// PhotoMeta carries the dimensions and size info recorded with a capture.
type PhotoMeta struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	SizeBytes        int64   `json:"size_bytes"`
	CompressionRatio float64 `json:"compression_ratio,omitempty"`
	DeviceClass      string  `json:"device_class,omitempty"`
}

// CapturedPhoto is one photo taken during a guided session. Uploaded is
// flipped by the upload collaborator once the photo is durably stored; this
// package never mutates it.
type CapturedPhoto struct {
	ID        uuid.UUID     `json:"id"`
	ItemID    uuid.UUID     `json:"item_id"`
	Angle     matcher.Angle `json:"angle"`
	Filename  string        `json:"filename"`
	Meta      PhotoMeta     `json:"meta"`
	Timestamp time.Time     `json:"timestamp"`
	Uploaded  bool          `json:"uploaded"`
}

// Session is the in-memory state of one guided walk through a room. All
// mutation goes through the Tracker; Session itself only derives values.
type Session struct {
	ID       uuid.UUID `json:"id"`
	RoomID   uuid.UUID `json:"room_id"`
	RoomName string    `json:"room_name"`

	// ItemIDs is the walk order; CurrentItemIndex always stays within
	// [0, ItemsTotal-1].
	ItemIDs          []uuid.UUID `json:"item_ids"`
	ItemsTotal       int         `json:"items_total"`
	CurrentItemIndex int         `json:"current_item_index"`

	// CurrentAngle is the viewpoint selected for the current item; it resets
	// to the default on every navigation.
	CurrentAngle matcher.Angle `json:"current_angle"`

	// PhotosCaptured counts every capture event. Progress derives from the
	// distinct-item count instead, so multiple angles of one item cannot push
	// it past 100%.
	PhotosCaptured int `json:"photos_captured"`

	// CurrentItemPhotos is the transient per-item counter shown during
	// capture; it resets on navigation.
	CurrentItemPhotos int `json:"current_item_photos"`

	StartTime    time.Time `json:"start_time"`
	LastSaveTime time.Time `json:"last_save_time"`
	Status       Status    `json:"status"`

	// Photos maps itemID to captures in capture order, append-only.
	Photos map[uuid.UUID][]CapturedPhoto `json:"photos"`
}

// CurrentItemID returns the item the walk currently points at.
func (s *Session) CurrentItemID() uuid.UUID {
	return s.ItemIDs[s.CurrentItemIndex]
}

// ItemsCaptured counts distinct items with at least one photo.
func (s *Session) ItemsCaptured() int {
	n := 0
	for _, photos := range s.Photos {
		if len(photos) > 0 {
			n++
		}
	}
	return n
}

// clone returns a snapshot safe to hand to collaborators and HTTP encoders
// after the tracker lock is released.
func (s *Session) clone() *Session {
	cp := *s
	cp.ItemIDs = append([]uuid.UUID(nil), s.ItemIDs...)
	cp.Photos = make(map[uuid.UUID][]CapturedPhoto, len(s.Photos))
	for itemID, photos := range s.Photos {
		cp.Photos[itemID] = append([]CapturedPhoto(nil), photos...)
	}
	return &cp
}
