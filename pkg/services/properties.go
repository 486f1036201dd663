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

// PropertyInput holds the host-editable fields of a property.
type PropertyInput struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	Amenities     []string `json:"amenities"`
	PricePerNight float64  `json:"price_per_night"`
}

func (in *PropertyInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Location) == "" {
		return fmt.Errorf("%w: location is required", apperrors.ErrInvalidInput)
	}
	if in.PricePerNight < 0 {
		return fmt.Errorf("%w: price_per_night cannot be negative", apperrors.ErrInvalidInput)
	}
	return nil
}

// PropertyService defines the interface for property listing operations.
type PropertyService interface {
	Create(ctx context.Context, identity auth.Identity, input PropertyInput) (*models.Property, error)
	Update(ctx context.Context, identity auth.Identity, id uuid.UUID, input PropertyInput) (*models.Property, error)
	Delete(ctx context.Context, identity auth.Identity, id uuid.UUID) error
	// Get returns the property with its rooms.
	Get(ctx context.Context, id uuid.UUID) (*models.PropertyWithRooms, error)
	List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]*models.Property, error)
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	roomRepo     repositories.RoomRepository
	cache        repositories.EvaluationCache
	logger       *zap.Logger
}

// NewPropertyService creates a new property service with dependencies.
func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	roomRepo repositories.RoomRepository,
	cache repositories.EvaluationCache,
	logger *zap.Logger,
) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		roomRepo:     roomRepo,
		cache:        cache,
		logger:       logger.Named("properties"),
	}
}

// ensureCanManage allows the owning host and admins.
func ensureCanManage(identity auth.Identity, property *models.Property) error {
	if identity.Role == models.RoleAdmin {
		return nil
	}
	if identity.Role == models.RoleHost && property.HostID == identity.UserID {
		return nil
	}
	return fmt.Errorf("%w: property belongs to another host", apperrors.ErrForbidden)
}

func (s *propertyService) Create(ctx context.Context, identity auth.Identity, input PropertyInput) (*models.Property, error) {
	if !identity.HasRole(models.RoleHost) {
		return nil, fmt.Errorf("%w: only hosts can list properties", apperrors.ErrForbidden)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	property := &models.Property{
		HostID:        identity.UserID,
		Name:          strings.TrimSpace(input.Name),
		Location:      strings.TrimSpace(input.Location),
		Description:   input.Description,
		Amenities:     input.Amenities,
		PricePerNight: input.PricePerNight,
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}

	s.logger.Info("Created property",
		zap.String("property_id", property.ID.String()),
		zap.String("host_id", identity.UserID.String()))

	return property, nil
}

func (s *propertyService) Update(ctx context.Context, identity auth.Identity, id uuid.UUID, input PropertyInput) (*models.Property, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureCanManage(identity, property); err != nil {
		return nil, err
	}

	property.Name = strings.TrimSpace(input.Name)
	property.Location = strings.TrimSpace(input.Location)
	property.Description = input.Description
	property.Amenities = input.Amenities
	property.PricePerNight = input.PricePerNight

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, identity auth.Identity, id uuid.UUID) error {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureCanManage(identity, property); err != nil {
		return err
	}
	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("Failed to drop cached evaluation",
			zap.String("property_id", id.String()),
			zap.Error(err))
	}

	s.logger.Info("Deleted property", zap.String("property_id", id.String()))
	return nil
}

func (s *propertyService) Get(ctx context.Context, id uuid.UUID) (*models.PropertyWithRooms, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rooms, err := s.roomRepo.ListByProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []*models.Room{}
	}
	return &models.PropertyWithRooms{Property: *property, Rooms: rooms}, nil
}

func (s *propertyService) List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", apperrors.ErrInvalidInput)
	}
	filter.Location = strings.TrimSpace(filter.Location)
	return s.propertyRepo.List(ctx, filter)
}

func (s *propertyService) ListByHost(ctx context.Context, hostID uuid.UUID) ([]*models.Property, error) {
	return s.propertyRepo.ListByHost(ctx, hostID)
}

// Ensure propertyService implements PropertyService at compile time.
var _ PropertyService = (*propertyService)(nil)
