package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookingai/bookingai-engine/pkg/database"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

// FavoriteRepository defines the interface for saved-property data access.
type FavoriteRepository interface {
	// Add saves a property for the user. Adding an existing favorite is a no-op.
	Add(ctx context.Context, userID, propertyID uuid.UUID) error
	Remove(ctx context.Context, userID, propertyID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Property, error)
}

type favoriteRepository struct{}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository() FavoriteRepository {
	return &favoriteRepository{}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO favorites (user_id, property_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, property_id) DO NOTHING`, userID, propertyID)
	return wrapError("add favorite", err)
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND property_id = $2`, userID, propertyID)
	if err != nil {
		return wrapError("remove favorite", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("remove favorite", errNoRows)
	}
	return nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Property, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT p.id, p.host_id, p.name, p.location, p.description, p.amenities, p.price_per_night,
		       p.ai_evaluation, p.created_at, p.updated_at
		FROM favorites f JOIN properties p ON p.id = f.property_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, p.id`, userID)
	if err != nil {
		return nil, wrapError("list favorites", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}
