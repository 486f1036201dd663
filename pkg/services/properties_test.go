package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

func hostIdentity() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Role: models.RoleHost}
}

func TestPropertyService_CreateAndOwnership(t *testing.T) {
	properties := newMockPropertyRepository()
	cache := newMockEvaluationCache()
	svc := NewPropertyService(properties, newMockRoomRepository(), cache, zap.NewNop())
	owner := hostIdentity()

	created, err := svc.Create(context.Background(), owner, PropertyInput{
		Name: " Casa Azul ", Location: "Porto", PricePerNight: 110, Amenities: []string{"wifi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Casa Azul", created.Name)
	assert.Equal(t, owner.UserID, created.HostID)

	other := hostIdentity()
	_, err = svc.Update(context.Background(), other, created.ID, PropertyInput{Name: "Mine", Location: "Porto"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.Update(context.Background(), owner, created.ID, PropertyInput{Name: "Casa Verde", Location: "Porto", PricePerNight: 120})
	require.NoError(t, err)
	assert.Equal(t, "Casa Verde", updated.Name)

	err = svc.Delete(context.Background(), other, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	admin := auth.Identity{UserID: uuid.New(), Role: models.RoleAdmin}
	require.NoError(t, svc.Delete(context.Background(), admin, created.ID))
	assert.Equal(t, created.ID, properties.deletedID)
	assert.Equal(t, 1, cache.deleteCalls)
}

func TestPropertyService_Create_Rejections(t *testing.T) {
	svc := NewPropertyService(newMockPropertyRepository(), newMockRoomRepository(), newMockEvaluationCache(), zap.NewNop())

	guest := auth.Identity{UserID: uuid.New(), Role: models.RoleGuest}
	_, err := svc.Create(context.Background(), guest, PropertyInput{Name: "A", Location: "B"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Create(context.Background(), hostIdentity(), PropertyInput{Location: "B"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Create(context.Background(), hostIdentity(), PropertyInput{Name: "A", Location: "B", PricePerNight: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPropertyService_GetIncludesRooms(t *testing.T) {
	property := &models.Property{ID: uuid.New(), Name: "Loft"}
	room := &models.Room{ID: uuid.New(), PropertyID: property.ID, Title: "Room 1"}
	svc := NewPropertyService(newMockPropertyRepository(property), newMockRoomRepository(room), newMockEvaluationCache(), zap.NewNop())

	got, err := svc.Get(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loft", got.Name)
	require.Len(t, got.Rooms, 1)
	assert.Equal(t, room.ID, got.Rooms[0].ID)

	empty := &models.Property{ID: uuid.New()}
	svc = NewPropertyService(newMockPropertyRepository(empty), newMockRoomRepository(), newMockEvaluationCache(), zap.NewNop())
	got, err = svc.Get(context.Background(), empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Rooms)
}

func TestPropertyService_List(t *testing.T) {
	properties := newMockPropertyRepository()
	svc := NewPropertyService(properties, newMockRoomRepository(), newMockEvaluationCache(), zap.NewNop())

	_, err := svc.List(context.Background(), models.PropertyFilter{Location: " Lisbon ", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", properties.capturedFilter.Location)

	_, err = svc.List(context.Background(), models.PropertyFilter{Limit: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRoomService_CreateAndUpdate(t *testing.T) {
	owner := hostIdentity()
	property := &models.Property{ID: uuid.New(), HostID: owner.UserID}
	rooms := newMockRoomRepository()
	svc := NewRoomService(newMockPropertyRepository(property), rooms, zap.NewNop())

	room, err := svc.Create(context.Background(), owner, property.ID, RoomInput{
		Title: "Sea view", RoomType: "double", PricePerNight: 130,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityAvailable, room.AvailabilityStatus, "empty status defaults to available")

	_, err = svc.Create(context.Background(), hostIdentity(), property.ID, RoomInput{Title: "Intruder"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Update(context.Background(), owner, room.ID, RoomInput{Title: "Sea view", AvailabilityStatus: "closed"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	updated, err := svc.Update(context.Background(), owner, room.ID, RoomInput{Title: "Sea view", AvailabilityStatus: "unavailable"})
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityUnavailable, updated.AvailabilityStatus)
	assert.Same(t, updated, rooms.capturedRoom)

	badRating := 7.5
	_, err = svc.Create(context.Background(), owner, property.ID, RoomInput{Title: "x", Rating: &badRating})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestFavoriteService(t *testing.T) {
	property := &models.Property{ID: uuid.New()}
	favorites := &mockFavoriteRepository{}
	svc := NewFavoriteService(favorites, newMockPropertyRepository(property))
	userID := uuid.New()

	require.NoError(t, svc.Add(context.Background(), userID, property.ID))
	assert.Equal(t, 1, favorites.addCalls)

	err := svc.Add(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 1, favorites.addCalls)

	require.NoError(t, svc.Remove(context.Background(), userID, property.ID))
	assert.Equal(t, 1, favorites.removeCalls)

	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
