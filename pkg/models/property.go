package models

import (
	"time"

	"github.com/google/uuid"
)

// Property is a host-owned listing. Evaluation holds the most recent AI
// evaluation; a new evaluation overwrites the previous one.
type Property struct {
	ID            uuid.UUID           `json:"id"`
	HostID        uuid.UUID           `json:"host_id"`
	Name          string              `json:"name"`
	Location      string              `json:"location"`
	Description   string              `json:"description"`
	Amenities     []string            `json:"amenities"`
	PricePerNight float64             `json:"price_per_night"`
	Evaluation    *PropertyEvaluation `json:"ai_evaluation,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// PropertyFilter narrows public property listings.
type PropertyFilter struct {
	Location string
	Limit    int
	Offset   int
}

// PropertyWithRooms is returned by the property detail endpoint.
type PropertyWithRooms struct {
	Property
	Rooms []*Room `json:"rooms"`
}

// Favorite marks a property as saved by a user.
type Favorite struct {
	UserID     uuid.UUID `json:"user_id"`
	PropertyID uuid.UUID `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}
