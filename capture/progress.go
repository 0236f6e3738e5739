package capture

import (
	"fmt"
	"math"
	"time"
)

// Progress is the derived, read-only view of a session recomputed on demand.
type Progress struct {
	ItemsTotal     int    `json:"items_total"`
	ItemsCaptured  int    `json:"items_captured"`
	PhotosCaptured int    `json:"photos_captured"`
	Percent        int    `json:"percent"`
	Remaining      int    `json:"remaining"`
	Estimate       string `json:"estimate,omitempty"`
}

// ProgressPercent is the share of the room's items with at least one photo,
// rounded to an integer. Always within [0, 100].
func (s *Session) ProgressPercent() int {
	if s.ItemsTotal == 0 {
		return 0
	}
	return int(math.Round(float64(s.ItemsCaptured()) / float64(s.ItemsTotal) * 100))
}

// Remaining is the number of items still without a photo.
func (s *Session) Remaining() int {
	return s.ItemsTotal - s.ItemsCaptured()
}

// EstimateRemaining projects how long the rest of the walk will take from the
// average pace so far. ok is false before the first capture, when no estimate
// is possible.
func (s *Session) EstimateRemaining(now time.Time) (d time.Duration, ok bool) {
	captured := s.ItemsCaptured()
	if captured == 0 {
		return 0, false
	}
	perItem := now.Sub(s.StartTime) / time.Duration(captured)
	return perItem * time.Duration(s.Remaining()), true
}

// FormatEstimate renders a remaining-time estimate in whole minutes.
func FormatEstimate(d time.Duration) string {
	minutes := int(math.Round(d.Minutes()))
	if minutes <= 0 {
		return "less than a minute"
	}
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// ProgressOf assembles the full derived view for API responses.
func ProgressOf(s *Session, now time.Time) Progress {
	p := Progress{
		ItemsTotal:     s.ItemsTotal,
		ItemsCaptured:  s.ItemsCaptured(),
		PhotosCaptured: s.PhotosCaptured,
		Percent:        s.ProgressPercent(),
		Remaining:      s.Remaining(),
	}
	if d, ok := s.EstimateRemaining(now); ok {
		p.Estimate = FormatEstimate(d)
	}
	return p
}
