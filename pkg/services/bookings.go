package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/database"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/repositories"
)

// DateLayout is the accepted format for check-in and check-out dates.
const DateLayout = "2006-01-02"

// BookingInput is a guest's reservation request. Dates use DateLayout.
type BookingInput struct {
	RoomID   uuid.UUID `json:"room_id"`
	CheckIn  string    `json:"check_in"`
	CheckOut string    `json:"check_out"`
}

func (in *BookingInput) dates() (time.Time, time.Time, error) {
	if in.RoomID == uuid.Nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: room_id is required", apperrors.ErrInvalidInput)
	}
	checkIn, err := time.Parse(DateLayout, in.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: check_in must be a date (YYYY-MM-DD)", apperrors.ErrInvalidInput)
	}
	checkOut, err := time.Parse(DateLayout, in.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: check_out must be a date (YYYY-MM-DD)", apperrors.ErrInvalidInput)
	}
	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: check_in must be before check_out", apperrors.ErrInvalidInput)
	}
	return checkIn, checkOut, nil
}

// BookingService defines the interface for reservation operations.
type BookingService interface {
	// Create books an available room for the guest. Overlapping reservations
	// of the same room yield apperrors.ErrRoomUnavailable.
	Create(ctx context.Context, guestID uuid.UUID, input BookingInput) (*models.Booking, error)
	List(ctx context.Context, guestID uuid.UUID) ([]*models.Booking, error)
	Cancel(ctx context.Context, guestID, bookingID uuid.UUID) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo repositories.BookingRepository
	roomRepo    repositories.RoomRepository
	withTx      txRunner
	logger      *zap.Logger
}

// NewBookingService creates a new booking service with dependencies.
func NewBookingService(
	bookingRepo repositories.BookingRepository,
	roomRepo repositories.RoomRepository,
	logger *zap.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		withTx:      database.WithTx,
		logger:      logger.Named("bookings"),
	}
}

// totalCost is nights × nightly price, rounded to cents.
func totalCost(nights int, price float64) float64 {
	return math.Round(float64(nights)*price*100) / 100
}

func (s *bookingService) Create(ctx context.Context, guestID uuid.UUID, input BookingInput) (*models.Booking, error) {
	checkIn, checkOut, err := input.dates()
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		GuestID:  guestID,
		RoomID:   input.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Status:   models.BookingPending,
	}

	err = s.withTx(ctx, func(ctx context.Context) error {
		// Concurrent bookings of the same room serialize on this lock so the
		// overlap check below sees any booking committed ahead of us.
		room, err := s.roomRepo.GetByIDForUpdate(ctx, input.RoomID)
		if err != nil {
			return err
		}
		if room.AvailabilityStatus != models.AvailabilityAvailable {
			return fmt.Errorf("%w: room is %s", apperrors.ErrRoomUnavailable, room.AvailabilityStatus)
		}

		overlap, err := s.bookingRepo.HasOverlap(ctx, room.ID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("%w: room is already booked for these dates", apperrors.ErrRoomUnavailable)
		}

		booking.TotalCost = totalCost(booking.Nights(), room.PricePerNight)
		return s.bookingRepo.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created booking",
		zap.String("booking_id", booking.ID.String()),
		zap.String("room_id", booking.RoomID.String()),
		zap.Int("nights", booking.Nights()))

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, guestID uuid.UUID) ([]*models.Booking, error) {
	return s.bookingRepo.ListByGuest(ctx, guestID)
}

func (s *bookingService) Cancel(ctx context.Context, guestID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != guestID {
		return nil, fmt.Errorf("%w: booking belongs to another guest", apperrors.ErrForbidden)
	}
	if booking.Status == models.BookingCancelled {
		return nil, fmt.Errorf("%w: booking is already cancelled", apperrors.ErrConflict)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, models.BookingCancelled); err != nil {
		return nil, err
	}
	booking.Status = models.BookingCancelled

	s.logger.Info("Cancelled booking", zap.String("booking_id", bookingID.String()))
	return booking, nil
}

// Ensure bookingService implements BookingService at compile time.
var _ BookingService = (*bookingService)(nil)
