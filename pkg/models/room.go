package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AvailabilityStatus describes whether a room can be booked.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityBooked      AvailabilityStatus = "booked"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// ParseAvailabilityStatus converts a string into an AvailabilityStatus.
// An empty string defaults to available.
func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	switch AvailabilityStatus(s) {
	case "":
		return AvailabilityAvailable, nil
	case AvailabilityAvailable, AvailabilityBooked, AvailabilityUnavailable:
		return AvailabilityStatus(s), nil
	}
	return "", fmt.Errorf("unknown availability status %q", s)
}

// Room is a bookable unit within a property.
type Room struct {
	ID                 uuid.UUID          `json:"id"`
	PropertyID         uuid.UUID          `json:"property_id"`
	Title              string             `json:"title"`
	RoomType           string             `json:"room_type"`
	PricePerNight      float64            `json:"price_per_night"`
	Rating             *float64           `json:"rating,omitempty"`
	Amenities          []string           `json:"amenities"`
	AvailabilityStatus AvailabilityStatus `json:"availability_status"`
	PhotosURL          string             `json:"photos_url,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

// Summary projects the room into the shape sent to the ranking model.
func (r *Room) Summary() RoomSummary {
	price := r.PricePerNight
	return RoomSummary{
		ID:        r.ID.String(),
		RoomType:  r.RoomType,
		Price:     &price,
		Rating:    r.Rating,
		Amenities: r.Amenities,
	}
}
