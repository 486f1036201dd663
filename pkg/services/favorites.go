package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/repositories"
)

// FavoriteService defines the interface for saved-property operations.
type FavoriteService interface {
	Add(ctx context.Context, userID, propertyID uuid.UUID) error
	Remove(ctx context.Context, userID, propertyID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.Property, error)
}

type favoriteService struct {
	favoriteRepo repositories.FavoriteRepository
	propertyRepo repositories.PropertyRepository
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(favoriteRepo repositories.FavoriteRepository, propertyRepo repositories.PropertyRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		propertyRepo: propertyRepo,
	}
}

// Add saves the property. A missing property yields apperrors.ErrNotFound.
func (s *favoriteService) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	if _, err := s.propertyRepo.GetByID(ctx, propertyID); err != nil {
		return err
	}
	return s.favoriteRepo.Add(ctx, userID, propertyID)
}

func (s *favoriteService) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	return s.favoriteRepo.Remove(ctx, userID, propertyID)
}

func (s *favoriteService) List(ctx context.Context, userID uuid.UUID) ([]*models.Property, error) {
	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []*models.Property{}
	}
	return favorites, nil
}

// Ensure favoriteService implements FavoriteService at compile time.
var _ FavoriteService = (*favoriteService)(nil)
