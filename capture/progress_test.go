package capture

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// sessionWithCaptures builds a session of total items with the first captured
// items each holding one photo.
func sessionWithCaptures(total, captured int) *Session {
	s := &Session{
		ItemsTotal: total,
		Photos:     make(map[uuid.UUID][]CapturedPhoto),
	}
	for i := 0; i < total; i++ {
		id := uuid.New()
		s.ItemIDs = append(s.ItemIDs, id)
		if i < captured {
			s.Photos[id] = []CapturedPhoto{{ID: uuid.New(), ItemID: id}}
			s.PhotosCaptured++
		}
	}
	return s
}

func TestProgressPercent(t *testing.T) {
	tests := map[string]struct {
		total    int
		captured int
		want     int
	}{
		"nothing captured": {total: 3, captured: 0, want: 0},
		"one third":        {total: 3, captured: 1, want: 33},
		"two thirds":       {total: 3, captured: 2, want: 67},
		"complete":         {total: 3, captured: 3, want: 100},
		"empty session":    {total: 0, captured: 0, want: 0},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := sessionWithCaptures(tc.total, tc.captured)
			assert.Equal(t, tc.want, s.ProgressPercent())
		})
	}
}

func TestProgressPercentIgnoresExtraAngles(t *testing.T) {
	s := sessionWithCaptures(4, 1)
	itemID := s.ItemIDs[0]
	// several angles of the same item still count as one captured item
	s.Photos[itemID] = append(s.Photos[itemID], CapturedPhoto{ID: uuid.New(), ItemID: itemID})
	s.PhotosCaptured++

	assert.Equal(t, 25, s.ProgressPercent())
	assert.Equal(t, 3, s.Remaining())
	assert.Equal(t, 3, s.PhotosCaptured)
}

func TestEstimateRemaining(t *testing.T) {
	start := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

	s := sessionWithCaptures(4, 2)
	s.StartTime = start

	// 2 items in 10 minutes leaves 2 items at 5 minutes each
	d, ok := s.EstimateRemaining(start.Add(10 * time.Minute))
	assert.True(t, ok)
	assert.Equal(t, 10*time.Minute, d)

	// no captures yet, no estimate
	empty := sessionWithCaptures(4, 0)
	empty.StartTime = start
	_, ok = empty.EstimateRemaining(start.Add(10 * time.Minute))
	assert.False(t, ok)
}

func TestFormatEstimate(t *testing.T) {
	tests := map[string]struct {
		d    time.Duration
		want string
	}{
		"seconds":       {d: 20 * time.Second, want: "less than a minute"},
		"zero":          {d: 0, want: "less than a minute"},
		"single minute": {d: time.Minute, want: "1 minute"},
		"rounds up":     {d: 90 * time.Second, want: "2 minutes"},
		"many minutes":  {d: 12 * time.Minute, want: "12 minutes"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatEstimate(tc.d))
		})
	}
}

func TestProgressOf(t *testing.T) {
	start := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	s := sessionWithCaptures(4, 2)
	s.StartTime = start

	p := ProgressOf(s, start.Add(10*time.Minute))
	assert.Equal(t, 4, p.ItemsTotal)
	assert.Equal(t, 2, p.ItemsCaptured)
	assert.Equal(t, 2, p.PhotosCaptured)
	assert.Equal(t, 50, p.Percent)
	assert.Equal(t, 2, p.Remaining)
	assert.Equal(t, "10 minutes", p.Estimate)

	fresh := sessionWithCaptures(4, 0)
	fresh.StartTime = start
	p = ProgressOf(fresh, start.Add(time.Minute))
	assert.Empty(t, p.Estimate)
}
