package matcher

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchAutoAssignsOnAdd(t *testing.T) {
	items, rooms := testCatalog()
	b := NewBatch(items, rooms, 0)

	uc := b.Add("item-042-sofa-main.jpg", 1024)
	require.NotNil(t, uc)
	assert.Equal(t, "042", uc.Hints.ItemID)

	a, ok := b.Assignment(uc.ID)
	require.True(t, ok, "expected auto-assignment for a clear ID match")
	assert.True(t, a.Auto)
	assert.Equal(t, items[0].ID, a.ItemID)
	assert.Equal(t, AngleMain, a.Angle)

	// an ambiguous filename stays unassigned
	uc2 := b.Add("sectional-sofa-main.jpg", 1024)
	_, ok = b.Assignment(uc2.ID)
	assert.False(t, ok)
}

func TestBatchCandidatesNaturalOrder(t *testing.T) {
	items, rooms := testCatalog()
	b := NewBatch(items, rooms, 0)

	b.Add("item-10.jpg", 1)
	b.Add("item-2.jpg", 1)
	b.Add("item-1.jpg", 1)

	got := b.Candidates()
	require.Len(t, got, 3)
	assert.Equal(t, "item-1.jpg", got[0].Filename)
	assert.Equal(t, "item-2.jpg", got[1].Filename)
	assert.Equal(t, "item-10.jpg", got[2].Filename)
}

func TestBatchManualAssignOverwrites(t *testing.T) {
	items, rooms := testCatalog()
	b := NewBatch(items, rooms, 0)

	uc := b.Add("sectional-sofa-main.jpg", 1024)

	first, err := b.ManualAssign(uc.ID, items[0].ID, AngleMain)
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, first.ItemID)
	assert.False(t, first.Auto)

	// re-assigning replaces, never duplicates
	second, err := b.ManualAssign(uc.ID, items[1].ID, AngleDetail)
	require.NoError(t, err)

	a, ok := b.Assignment(uc.ID)
	require.True(t, ok)
	assert.Equal(t, second, a)
	assert.Equal(t, items[1].ID, a.ItemID)
	assert.Equal(t, AngleDetail, a.Angle)

	confirmed := b.Confirm()
	require.Len(t, confirmed, 1)
	assert.Equal(t, items[1].ID, confirmed[0].ItemID)
	assert.True(t, confirmed[0].Confirmed)
}

func TestBatchManualAssignUnknownCandidate(t *testing.T) {
	items, rooms := testCatalog()
	b := NewBatch(items, rooms, 0)

	_, err := b.ManualAssign("upload_99", items[0].ID, AngleMain)
	assert.ErrorIs(t, err, ErrUnknownCandidate)
}

func TestBatchManualAssignConfidenceFromCandidates(t *testing.T) {
	items, rooms := testCatalog()
	b := NewBatch(items, rooms, 0)

	uc := b.Add("sectional-sofa-main.jpg", 1024)
	a, err := b.ManualAssign(uc.ID, items[0].ID, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultAngle, a.Angle)
	assert.Equal(t, 50, a.Confidence)

	// assigning an item that never scored keeps confidence at zero
	a, err = b.ManualAssign(uc.ID, uuid.New(), AngleMain)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Confidence)
}

func TestBatchUnassignAndRemove(t *testing.T) {
	items, rooms := testCatalog()
	b := NewBatch(items, rooms, 0)

	uc := b.Add("item-042-sofa-main.jpg", 1024)
	_, ok := b.Assignment(uc.ID)
	require.True(t, ok)

	b.Unassign(uc.ID)
	_, ok = b.Assignment(uc.ID)
	assert.False(t, ok)

	b.Remove(uc.ID)
	_, ok = b.Candidate(uc.ID)
	assert.False(t, ok)
	assert.Empty(t, b.Candidates())
}

func TestBatchConfirmDrains(t *testing.T) {
	items, rooms := testCatalog()
	b := NewBatch(items, rooms, 0)

	auto := b.Add("item-042-sofa-main.jpg", 1024)
	b.Add("IMG_1234.jpg", 1024) // unassigned, dropped on confirm

	confirmed := b.Confirm()
	require.Len(t, confirmed, 1)
	assert.Equal(t, auto.ID, confirmed[0].CandidateID)

	assert.Empty(t, b.Candidates())
	assert.Empty(t, b.Confirm())
}

func TestBatchCandidateIDsUniqueAcrossBatches(t *testing.T) {
	items, rooms := testCatalog()

	// candidate IDs end up as PhotoMatch.candidate_id, which is unique
	// across the whole table: a second batch reusing the first batch's IDs
	// would overwrite its persisted match decisions
	first := NewBatch(items, rooms, 0)
	second := NewBatch(items, rooms, 0)
	require.NotEqual(t, first.ID(), second.ID())

	a := first.Add("item-042-sofa-main.jpg", 1024)
	b := second.Add("item-042-sofa-main.jpg", 1024)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Contains(t, a.ID, first.ID())
	assert.Contains(t, b.ID, second.ID())
}

func TestBatchThresholdRespected(t *testing.T) {
	items, rooms := testCatalog()

	// name+category+no-photos yields 50 for the sofa; a threshold below that
	// lets it auto-assign, the default does not
	b := NewBatch(items, rooms, 40)
	uc := b.Add("sectional-sofa-main.jpg", 1024)
	a, ok := b.Assignment(uc.ID)
	require.True(t, ok)
	assert.True(t, a.Auto)
	assert.Equal(t, 50, a.Confidence)
}
