//go:build integration

package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/repositories"
	"github.com/bookingai/bookingai-engine/pkg/testhelpers"
)

func TestBookingService_Create_ConcurrentOverlapBooksOnce(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)

	hostID := engineDB.CreateUser(t, "host")
	propertyID := engineDB.CreateProperty(t, hostID, "Race Lodge")
	roomID := engineDB.CreateRoom(t, propertyID, 120)

	svc := NewBookingService(repositories.NewBookingRepository(), repositories.NewRoomRepository(), zap.NewNop())

	// Each guest gets its own connection so the transactions really interleave.
	const guests = 2
	ctxs := make([]context.Context, guests)
	guestIDs := make([]uuid.UUID, guests)
	for i := 0; i < guests; i++ {
		ctxs[i] = engineDB.ScopedContext(t)
		guestIDs[i] = engineDB.CreateUser(t, "guest")
	}

	start := make(chan struct{})
	errs := make([]error, guests)
	var wg sync.WaitGroup
	for i := 0; i < guests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Create(ctxs[i], guestIDs[i], BookingInput{
				RoomID:   roomID,
				CheckIn:  "2026-08-01",
				CheckOut: "2026-08-05",
			})
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrRoomUnavailable)
	}
	assert.Equal(t, 1, succeeded, "exactly one overlapping booking may be created")

	var count int
	err := engineDB.DB.Pool.QueryRow(context.Background(),
		`SELECT count(*) FROM bookings WHERE room_id = $1 AND status <> 'cancelled'`, roomID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
