package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookingai/bookingai-engine/pkg/database"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

// RoomRepository defines the interface for room data access.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	// GetByIDForUpdate locks the room row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Room, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	SetAvailability(ctx context.Context, id uuid.UUID, status models.AvailabilityStatus) error
}

type roomRepository struct{}

// NewRoomRepository creates a new room repository.
func NewRoomRepository() RoomRepository {
	return &roomRepository{}
}

const roomColumns = `id, property_id, title, room_type, price_per_night, rating, amenities, availability_status, photos_url, created_at`

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.AvailabilityStatus == "" {
		room.AvailabilityStatus = models.AvailabilityAvailable
	}
	room.CreatedAt = time.Now().UTC()

	amenities, err := jsonbParam(room.Amenities)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO rooms (id, property_id, title, room_type, price_per_night, rating, amenities, availability_status, photos_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		room.ID,
		room.PropertyID,
		room.Title,
		room.RoomType,
		room.PricePerNight,
		room.Rating,
		amenities,
		string(room.AvailabilityStatus),
		room.PhotosURL,
		room.CreatedAt,
	)
	return wrapError("create room", err)
}

func (r *roomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	room, err := scanRoom(q.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
	if err != nil {
		return nil, wrapError("get room", err)
	}
	return room, nil
}

func (r *roomRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	room, err := scanRoom(q.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, wrapError("lock room", err)
	}
	return room, nil
}

func (r *roomRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Room, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms WHERE property_id = $1
		ORDER BY created_at, id`, propertyID)
	if err != nil {
		return nil, wrapError("list rooms", err)
	}
	defer rows.Close()

	rooms := make([]*models.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) Update(ctx context.Context, room *models.Room) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	amenities, err := jsonbParam(room.Amenities)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `
		UPDATE rooms
		SET title = $1, room_type = $2, price_per_night = $3, rating = $4, amenities = $5,
		    availability_status = $6, photos_url = $7
		WHERE id = $8`,
		room.Title,
		room.RoomType,
		room.PricePerNight,
		room.Rating,
		amenities,
		string(room.AvailabilityStatus),
		room.PhotosURL,
		room.ID,
	)
	if err != nil {
		return wrapError("update room", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("update room", errNoRows)
	}
	return nil
}

func (r *roomRepository) SetAvailability(ctx context.Context, id uuid.UUID, status models.AvailabilityStatus) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `UPDATE rooms SET availability_status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return wrapError("set room availability", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("set room availability", errNoRows)
	}
	return nil
}

func scanRoom(row rowScanner) (*models.Room, error) {
	var room models.Room
	var amenitiesJSON []byte
	var status string

	err := row.Scan(
		&room.ID,
		&room.PropertyID,
		&room.Title,
		&room.RoomType,
		&room.PricePerNight,
		&room.Rating,
		&amenitiesJSON,
		&status,
		&room.PhotosURL,
		&room.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	room.AvailabilityStatus = models.AvailabilityStatus(status)
	if room.Amenities, err = scanStrings(amenitiesJSON); err != nil {
		return nil, err
	}
	return &room, nil
}
