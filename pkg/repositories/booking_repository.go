package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookingai/bookingai-engine/pkg/database"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error
	// HasOverlap reports whether a non-cancelled booking of the room intersects [checkIn, checkOut).
	HasOverlap(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error)
	// GetPropertyID resolves the property a booking belongs to through its room.
	GetPropertyID(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error)
}

type bookingRepository struct{}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository() BookingRepository {
	return &bookingRepository{}
}

const bookingColumns = `id, guest_id, room_id, check_in, check_out, total_cost, status, created_at`

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.Status == "" {
		booking.Status = models.BookingPending
	}
	booking.CreatedAt = time.Now().UTC()

	_, err = q.Exec(ctx, `
		INSERT INTO bookings (id, guest_id, room_id, check_in, check_out, total_cost, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		booking.ID,
		booking.GuestID,
		booking.RoomID,
		booking.CheckIn,
		booking.CheckOut,
		booking.TotalCost,
		string(booking.Status),
		booking.CreatedAt,
	)
	return wrapError("create booking", err)
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	booking, err := scanBooking(q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return nil, wrapError("get booking", err)
	}
	return booking, nil
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*models.Booking, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings WHERE guest_id = $1
		ORDER BY created_at DESC, id`, guestID)
	if err != nil {
		return nil, wrapError("list bookings", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return wrapError("update booking status", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("update booking status", errNoRows)
	}
	return nil
}

func (r *bookingRepository) HasOverlap(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND status <> 'cancelled'
			  AND check_in < $3
			  AND check_out > $2
		)`, roomID, checkIn, checkOut).Scan(&exists)
	if err != nil {
		return false, wrapError("check booking overlap", err)
	}
	return exists, nil
}

func (r *bookingRepository) GetPropertyID(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	var propertyID uuid.UUID
	err = q.QueryRow(ctx, `
		SELECT rm.property_id
		FROM bookings b JOIN rooms rm ON rm.id = b.room_id
		WHERE b.id = $1`, bookingID).Scan(&propertyID)
	if err != nil {
		return uuid.Nil, wrapError("get booking property", err)
	}
	return propertyID, nil
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var status string
	err := row.Scan(&b.ID, &b.GuestID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.TotalCost, &status, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = models.BookingStatus(status)
	return &b, nil
}
