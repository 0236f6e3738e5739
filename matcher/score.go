package matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/estateflow/inventorybackend/models"
)

const (
	// DefaultAutoAssignThreshold is the score a top candidate must strictly
	// exceed before an upload is assigned without user confirmation.
	DefaultAutoAssignThreshold = 70

	// candidates scoring at or below this are discarded as noise
	minCandidateScore = 10

	// maximum number of candidates surfaced per upload
	maxCandidates = 5
)

// MatchCandidate is one scored item suggestion for an uploaded file. Reasons
// are ordered by signal evaluation order. The score is an additive heuristic,
// not a probability; stacked signals may exceed 100.
type MatchCandidate struct {
	Item    models.Item `json:"item"`
	Score   int         `json:"score"`
	Reasons []string    `json:"reasons"`
}

// signal is one independent scoring heuristic. It returns the points earned
// and a human-readable reason, or ok=false when the signal is absent.
type signal func(hints Hints, item models.Item, rooms []models.Room) (points float64, reason string, ok bool)

// signals in fixed evaluation order; reasons append in this order.
var signals = []signal{idSignal, nameSignal, roomSignal, categorySignal, noPhotoSignal}

func idSignal(hints Hints, item models.Item, _ []models.Room) (float64, string, bool) {
	if hints.ItemID == "" {
		return 0, "", false
	}
	if !strings.Contains(strings.ToLower(item.ID.String()), hints.ItemID) {
		return 0, "", false
	}
	return 90, fmt.Sprintf("ID match: %s", hints.ItemID), true
}

func nameSignal(hints Hints, item models.Item, _ []models.Room) (float64, string, bool) {
	if hints.ItemName == "" {
		return 0, "", false
	}
	itemTokens := strings.Fields(strings.ToLower(item.Name))
	hintTokens := strings.Fields(hints.ItemName)
	if len(itemTokens) == 0 || len(hintTokens) == 0 {
		return 0, "", false
	}

	var common []string
	for _, ht := range hintTokens {
		for _, it := range itemTokens {
			if strings.Contains(it, ht) || strings.Contains(ht, it) {
				common = append(common, ht)
				break
			}
		}
	}
	if len(common) == 0 {
		return 0, "", false
	}

	denom := len(itemTokens)
	if len(hintTokens) > denom {
		denom = len(hintTokens)
	}
	points := float64(len(common)) / float64(denom) * 60
	return points, fmt.Sprintf("Name similarity: %s", strings.Join(common, ", ")), true
}

func roomSignal(hints Hints, item models.Item, rooms []models.Room) (float64, string, bool) {
	if hints.Room == "" {
		return 0, "", false
	}
	for _, room := range rooms {
		if room.ID != item.RoomID {
			continue
		}
		if roomNameMatches(hints.Room, room) {
			return 20, fmt.Sprintf("Room match: %s", room.Name), true
		}
	}
	return 0, "", false
}

func categorySignal(hints Hints, item models.Item, _ []models.Room) (float64, string, bool) {
	if hints.ItemName == "" {
		return 0, "", false
	}
	for _, kw := range categoryKeywords[item.Category] {
		if strings.Contains(hints.ItemName, kw) {
			return 15, fmt.Sprintf("Category match: %s", item.Category), true
		}
	}
	return 0, "", false
}

func noPhotoSignal(_ Hints, item models.Item, _ []models.Room) (float64, string, bool) {
	if len(item.Images) > 0 {
		return 0, "", false
	}
	return 5, "No existing photos", true
}

// ScoreMatches ranks catalog items against an uploaded filename. It never
// fails: absent hints or an empty catalog just produce fewer (or zero)
// candidates. Results are sorted by descending score, ties keeping catalog
// order, truncated to the top five.
func ScoreMatches(filename string, items []models.Item, rooms []models.Room) []MatchCandidate {
	hints := ParseFilename(filename, rooms)
	return ScoreMatchesWithHints(hints, items, rooms)
}

// ScoreMatchesWithHints is ScoreMatches for callers that already parsed the
// filename, so hints are computed exactly once per upload candidate.
func ScoreMatchesWithHints(hints Hints, items []models.Item, rooms []models.Room) []MatchCandidate {
	candidates := make([]MatchCandidate, 0, len(items))
	for _, item := range items {
		var total float64
		var reasons []string
		for _, sig := range signals {
			points, reason, ok := sig(hints, item, rooms)
			if !ok {
				continue
			}
			total += points
			reasons = append(reasons, reason)
		}
		score := int(math.Round(total))
		if score <= minCandidateScore {
			continue
		}
		candidates = append(candidates, MatchCandidate{Item: item, Score: score, Reasons: reasons})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

// AutoAssign picks the top candidate when its score strictly exceeds the
// threshold. A false return means the upload needs manual disambiguation,
// which is an expected outcome, not an error.
func AutoAssign(candidates []MatchCandidate, threshold int) (MatchCandidate, bool) {
	if len(candidates) == 0 || candidates[0].Score <= threshold {
		return MatchCandidate{}, false
	}
	return candidates[0], true
}
