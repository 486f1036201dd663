package testhelpers

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// CreateUser inserts a user with the given role and returns its id.
func (e *EngineDB) CreateUser(t *testing.T, role string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := e.DB.Pool.Exec(context.Background(), `
		INSERT INTO users (id, email, name, password_hash, role)
		VALUES ($1, $2, $3, 'x', $4)
	`, id, id.String()+"@example.com", "Test "+role, role)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return id
}

// CreateProperty inserts a property owned by hostID and returns its id.
func (e *EngineDB) CreateProperty(t *testing.T, hostID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := e.DB.Pool.Exec(context.Background(), `
		INSERT INTO properties (id, host_id, name, location, price_per_night)
		VALUES ($1, $2, $3, 'Almaty', 100)
	`, id, hostID, name)
	if err != nil {
		t.Fatalf("failed to create test property: %v", err)
	}
	return id
}

// CreateRoom inserts an available room in propertyID and returns its id.
func (e *EngineDB) CreateRoom(t *testing.T, propertyID uuid.UUID, price float64) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := e.DB.Pool.Exec(context.Background(), `
		INSERT INTO rooms (id, property_id, title, room_type, price_per_night)
		VALUES ($1, $2, 'Test room', 'Standard', $3)
	`, id, propertyID, price)
	if err != nil {
		t.Fatalf("failed to create test room: %v", err)
	}
	return id
}
