package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// RoomPhotoProgress is one row of the per-room capture progress report.
type RoomPhotoProgress struct {
	RoomID          string `json:"room_id"`
	RoomName        string `json:"room_name"`
	Floor           string `json:"floor"`
	ItemsTotal      int    `json:"items_total"`
	ItemsWithPhotos int    `json:"items_with_photos"`
	PhotosTotal     int    `json:"photos_total"`
}

// GetRoomPhotoProgress aggregates per-room item and photo counts, ordered by
// floor then room name.
func GetRoomPhotoProgress(db *sql.DB) ([]RoomPhotoProgress, error) {
	queryBuilder := psql.Select(
		"rooms.id",
		"rooms.name",
		"rooms.floor",
		"COUNT(DISTINCT items.id) AS items_total",
		"COUNT(DISTINCT item_images.item_id) AS items_with_photos",
		"COUNT(item_images.id) AS photos_total",
	).
		From("rooms").
		LeftJoin("items ON items.room_id = rooms.id AND items.deleted_at IS NULL").
		LeftJoin("item_images ON item_images.item_id = items.id").
		Where("rooms.deleted_at IS NULL").
		GroupBy("rooms.id", "rooms.name", "rooms.floor").
		OrderBy("rooms.floor", "rooms.name")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for GetRoomPhotoProgress: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query room photo progress: %w", err)
	}
	defer rows.Close()

	var progress []RoomPhotoProgress
	for rows.Next() {
		var p RoomPhotoProgress
		if err := rows.Scan(&p.RoomID, &p.RoomName, &p.Floor, &p.ItemsTotal, &p.ItemsWithPhotos, &p.PhotosTotal); err != nil {
			return nil, fmt.Errorf("failed to scan room photo progress row: %w", err)
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}
