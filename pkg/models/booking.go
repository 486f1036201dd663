package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking reserves a room for a guest between two dates.
type Booking struct {
	ID        uuid.UUID     `json:"id"`
	GuestID   uuid.UUID     `json:"guest_id"`
	RoomID    uuid.UUID     `json:"room_id"`
	CheckIn   time.Time     `json:"check_in"`
	CheckOut  time.Time     `json:"check_out"`
	TotalCost float64       `json:"total_cost"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Nights returns the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// Rating is a review score between 1 and 5 inclusive.
type Rating int

const (
	MinRating Rating = 1
	MaxRating Rating = 5
)

// NewRating validates v and returns it as a Rating.
func NewRating(v int) (Rating, error) {
	r := Rating(v)
	if !r.Valid() {
		return 0, fmt.Errorf("rating must be between %d and %d, got %d", MinRating, MaxRating, v)
	}
	return r, nil
}

// Valid reports whether the rating is within range.
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

// UnmarshalJSON rejects out-of-range ratings at decode time.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rating must be an integer: %w", err)
	}
	parsed, err := NewRating(v)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Review is a guest's feedback on a completed booking.
type Review struct {
	ID                 uuid.UUID `json:"id"`
	BookingID          uuid.UUID `json:"booking_id"`
	Rating             Rating    `json:"rating"`
	Comment            string    `json:"comment,omitempty"`
	AIAccuracyFeedback string    `json:"ai_accuracy_feedback,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
