package matcher

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estateflow/inventorybackend/models"
)

func testCatalog() ([]models.Item, []models.Room) {
	livingRoom := models.Room{ID: uuid.New(), Name: "Living Room", Floor: models.FloorMain}
	bedroom := models.Room{ID: uuid.New(), Name: "Master Bedroom", Floor: models.FloorUpper}
	rooms := []models.Room{livingRoom, bedroom}

	items := []models.Item{
		{
			ID:       uuid.MustParse("00000000-0000-0000-0000-000000000042"),
			RoomID:   livingRoom.ID,
			Name:     "West Elm Sectional Sofa",
			Category: models.CategoryFurniture,
		},
		{
			ID:       uuid.New(),
			RoomID:   livingRoom.ID,
			Name:     "Arc Floor Lamp",
			Category: models.CategoryLighting,
		},
		{
			ID:       uuid.New(),
			RoomID:   bedroom.ID,
			Name:     "King Bed Frame",
			Category: models.CategoryFurniture,
		},
	}
	return items, rooms
}

func TestScoreMatchesNameAndCategory(t *testing.T) {
	items, rooms := testCatalog()

	got := ScoreMatches("sectional-sofa-main.jpg", items, rooms)
	require.NotEmpty(t, got)

	top := got[0]
	assert.Equal(t, "West Elm Sectional Sofa", top.Item.Name)
	// 2 of 4 name tokens in common (30) + category keyword (15) + no photos (5)
	assert.Equal(t, 50, top.Score)
	assert.Equal(t, []string{
		"Name similarity: sectional, sofa",
		"Category match: Furniture",
		"No existing photos",
	}, top.Reasons)
}

func TestScoreMatchesIDDominates(t *testing.T) {
	items, rooms := testCatalog()

	got := ScoreMatches("item-042-sofa-main.jpg", items, rooms)
	require.NotEmpty(t, got)

	top := got[0]
	assert.Equal(t, "West Elm Sectional Sofa", top.Item.Name)
	// ID (90) + 1 of 4 name tokens (15) + category (15) + no photos (5)
	assert.Equal(t, 125, top.Score)
	assert.Contains(t, top.Reasons, "ID match: 042")
}

func TestScoreMatchesRoomSignal(t *testing.T) {
	items, rooms := testCatalog()

	got := ScoreMatches("livingroom-lamp-main.jpg", items, rooms)
	require.NotEmpty(t, got)

	top := got[0]
	assert.Equal(t, "Arc Floor Lamp", top.Item.Name)
	// 1 of 3 name tokens (20) + room (20) + category (15) + no photos (5)
	assert.Equal(t, 60, top.Score)
	assert.Contains(t, top.Reasons, "Room match: Living Room")
}

func TestScoreMatchesDiscardsNoise(t *testing.T) {
	items, rooms := testCatalog()

	// nothing extractable beyond camera defaults; only the no-photos signal
	// could apply and 5 points is below the noise floor
	got := ScoreMatches("IMG_1234.jpg", items, rooms)
	assert.Empty(t, got)
}

func TestScoreMatchesItemWithPhotosScoresLower(t *testing.T) {
	items, rooms := testCatalog()
	items[0].Images = []models.ItemImage{{URL: "/api/photos/web/a.jpg"}}

	got := ScoreMatches("sectional-sofa-main.jpg", items, rooms)
	require.NotEmpty(t, got)
	assert.Equal(t, 45, got[0].Score)
	assert.NotContains(t, got[0].Reasons, "No existing photos")
}

func TestScoreMatchesOrderingAndTruncation(t *testing.T) {
	room := models.Room{ID: uuid.New(), Name: "Living Room"}
	var items []models.Item
	for i := 0; i < 8; i++ {
		items = append(items, models.Item{
			ID:       uuid.New(),
			RoomID:   room.ID,
			Name:     fmt.Sprintf("Sofa Variant %d", i),
			Category: models.CategoryFurniture,
		})
	}

	got := ScoreMatches("sofa-main.jpg", items, []models.Room{room})
	assert.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	// ties keep catalog order
	assert.Equal(t, "Sofa Variant 0", got[0].Item.Name)
}

func TestAutoAssign(t *testing.T) {
	tests := map[string]struct {
		candidates []MatchCandidate
		threshold  int
		wantOK     bool
	}{
		"empty":            {candidates: nil, threshold: 70, wantOK: false},
		"below threshold":  {candidates: []MatchCandidate{{Score: 50}}, threshold: 70, wantOK: false},
		"at threshold":     {candidates: []MatchCandidate{{Score: 70}}, threshold: 70, wantOK: false},
		"above threshold":  {candidates: []MatchCandidate{{Score: 71}}, threshold: 70, wantOK: true},
		"custom threshold": {candidates: []MatchCandidate{{Score: 60}}, threshold: 50, wantOK: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := AutoAssign(tc.candidates, tc.threshold)
			assert.Equal(t, tc.wantOK, ok)
			if ok {
				assert.Equal(t, tc.candidates[0].Score, got.Score)
			}
		})
	}
}
