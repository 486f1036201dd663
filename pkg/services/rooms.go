package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/repositories"
)

// RoomInput holds the host-editable fields of a room.
type RoomInput struct {
	Title              string   `json:"title"`
	RoomType           string   `json:"room_type"`
	PricePerNight      float64  `json:"price_per_night"`
	Rating             *float64 `json:"rating,omitempty"`
	Amenities          []string `json:"amenities"`
	AvailabilityStatus string   `json:"availability_status"`
	PhotosURL          string   `json:"photos_url,omitempty"`
}

func (in *RoomInput) validate() (models.AvailabilityStatus, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if in.PricePerNight < 0 {
		return "", fmt.Errorf("%w: price_per_night cannot be negative", apperrors.ErrInvalidInput)
	}
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > float64(models.MaxRating)) {
		return "", fmt.Errorf("%w: rating must be between 0 and %d", apperrors.ErrInvalidInput, models.MaxRating)
	}
	status, err := models.ParseAvailabilityStatus(in.AvailabilityStatus)
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, err.Error())
	}
	return status, nil
}

// RoomService defines the interface for room operations.
type RoomService interface {
	Create(ctx context.Context, identity auth.Identity, propertyID uuid.UUID, input RoomInput) (*models.Room, error)
	Update(ctx context.Context, identity auth.Identity, roomID uuid.UUID, input RoomInput) (*models.Room, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Room, error)
}

type roomService struct {
	propertyRepo repositories.PropertyRepository
	roomRepo     repositories.RoomRepository
	logger       *zap.Logger
}

// NewRoomService creates a new room service with dependencies.
func NewRoomService(
	propertyRepo repositories.PropertyRepository,
	roomRepo repositories.RoomRepository,
	logger *zap.Logger,
) RoomService {
	return &roomService{
		propertyRepo: propertyRepo,
		roomRepo:     roomRepo,
		logger:       logger.Named("rooms"),
	}
}

func (s *roomService) Create(ctx context.Context, identity auth.Identity, propertyID uuid.UUID, input RoomInput) (*models.Room, error) {
	status, err := input.validate()
	if err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := ensureCanManage(identity, property); err != nil {
		return nil, err
	}

	room := &models.Room{
		PropertyID:         propertyID,
		Title:              strings.TrimSpace(input.Title),
		RoomType:           strings.TrimSpace(input.RoomType),
		PricePerNight:      input.PricePerNight,
		Rating:             input.Rating,
		Amenities:          input.Amenities,
		AvailabilityStatus: status,
		PhotosURL:          input.PhotosURL,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("Created room",
		zap.String("room_id", room.ID.String()),
		zap.String("property_id", propertyID.String()))

	return room, nil
}

func (s *roomService) Update(ctx context.Context, identity auth.Identity, roomID uuid.UUID, input RoomInput) (*models.Room, error) {
	status, err := input.validate()
	if err != nil {
		return nil, err
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	property, err := s.propertyRepo.GetByID(ctx, room.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := ensureCanManage(identity, property); err != nil {
		return nil, err
	}

	room.Title = strings.TrimSpace(input.Title)
	room.RoomType = strings.TrimSpace(input.RoomType)
	room.PricePerNight = input.PricePerNight
	room.Rating = input.Rating
	room.Amenities = input.Amenities
	room.AvailabilityStatus = status
	room.PhotosURL = input.PhotosURL

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Room, error) {
	if _, err := s.propertyRepo.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.roomRepo.ListByProperty(ctx, propertyID)
}

// Ensure roomService implements RoomService at compile time.
var _ RoomService = (*roomService)(nil)
