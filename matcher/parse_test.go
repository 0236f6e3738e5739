package matcher

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/estateflow/inventorybackend/models"
)

func testRooms() []models.Room {
	return []models.Room{
		{ID: uuid.New(), Name: "Living Room", Floor: models.FloorMain},
		{ID: uuid.New(), Name: "Master Bedroom", Floor: models.FloorUpper},
		{ID: uuid.New(), Name: "Garage", Floor: models.FloorGarage},
	}
}

func TestParseFilename(t *testing.T) {
	rooms := testRooms()

	tests := map[string]struct {
		filename string
		want     Hints
	}{
		"id, room and angle": {
			filename: "item-042_livingroom_main.jpg",
			want:     Hints{ItemID: "042", Room: "livingroom", Angle: AngleMain},
		},
		"name and angle only": {
			filename: "sectional-sofa-main.jpg",
			want:     Hints{Angle: AngleMain, ItemName: "sectional sofa"},
		},
		"id marker with underscore": {
			filename: "id_7f3a-side.png",
			want:     Hints{ItemID: "7f3a", Angle: AngleSide},
		},
		"room with space in catalog name": {
			filename: "masterbedroom-lamp-detail.jpg",
			want:     Hints{Room: "masterbedroom", Angle: AngleDetail, ItemName: "lamp"},
		},
		"id not detected inside words": {
			filename: "bedside-table-detail.jpeg",
			want:     Hints{Angle: AngleDetail, ItemName: "bedside table"},
		},
		"camera default name": {
			filename: "IMG_1234.jpg",
			want:     Hints{ItemName: "img 1234"},
		},
		"nothing extractable": {
			filename: "xy.jpg",
			want:     Hints{},
		},
		"space separated tokens": {
			filename: "garage bike rack back.jpg",
			want:     Hints{Room: "garage", Angle: AngleBack, ItemName: "bike rack"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := ParseFilename(tc.filename, rooms)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFilenameRoomCatalogOrder(t *testing.T) {
	// the first room in catalog order with a matching token wins
	rooms := []models.Room{
		{ID: uuid.New(), Name: "Bedroom"},
		{ID: uuid.New(), Name: "Guest Bedroom"},
	}
	got := ParseFilename("bedroom-chair.jpg", rooms)
	assert.Equal(t, "bedroom", got.Room)
}

func TestIsValidAngle(t *testing.T) {
	for _, a := range Angles() {
		assert.True(t, IsValidAngle(string(a)), "angle %s should be valid", a)
	}
	assert.False(t, IsValidAngle("overhead"))
	assert.False(t, IsValidAngle(""))
}
