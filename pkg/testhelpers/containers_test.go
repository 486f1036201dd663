//go:build integration

package testhelpers

import (
	"testing"
)

func TestEngineDB_MigrationsApplied(t *testing.T) {
	engineDB := GetEngineDB(t)
	ctx := engineDB.ScopedContext(t)

	var tableCount int
	err := engineDB.DB.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name <> 'schema_migrations'").
		Scan(&tableCount)
	if err != nil {
		t.Fatalf("failed to count tables: %v", err)
	}

	if tableCount != 8 {
		t.Errorf("expected 8 tables after migrations, got %d", tableCount)
	}
}

func TestEngineDB_Fixtures(t *testing.T) {
	engineDB := GetEngineDB(t)

	hostID := engineDB.CreateUser(t, "host")
	propertyID := engineDB.CreateProperty(t, hostID, "Fixture Inn")
	roomID := engineDB.CreateRoom(t, propertyID, 80)

	ctx := engineDB.ScopedContext(t)
	var count int
	err := engineDB.DB.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM rooms WHERE id = $1 AND property_id = $2", roomID, propertyID).Scan(&count)
	if err != nil {
		t.Fatalf("failed to query room: %v", err)
	}
	if count != 1 {
		t.Errorf("expected fixture room to exist, got %d rows", count)
	}
}
