package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookingai/bookingai-engine/pkg/database"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	// Create stores a review. A second review of the same booking yields apperrors.ErrConflict.
	Create(ctx context.Context, review *models.Review) error
	// ListByProperty returns every review of the property's rooms, newest first.
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Review, error)
}

type reviewRepository struct{}

// NewReviewRepository creates a new review repository.
func NewReviewRepository() ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now().UTC()

	_, err = q.Exec(ctx, `
		INSERT INTO reviews (id, booking_id, rating, comment, ai_accuracy_feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		review.ID,
		review.BookingID,
		int(review.Rating),
		review.Comment,
		review.AIAccuracyFeedback,
		review.CreatedAt,
	)
	return wrapError("create review", err)
}

func (r *reviewRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Review, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT rv.id, rv.booking_id, rv.rating, rv.comment, rv.ai_accuracy_feedback, rv.created_at
		FROM reviews rv
		JOIN bookings b ON b.id = rv.booking_id
		JOIN rooms rm ON rm.id = b.room_id
		WHERE rm.property_id = $1
		ORDER BY rv.created_at DESC, rv.id`, propertyID)
	if err != nil {
		return nil, wrapError("list property reviews", err)
	}
	defer rows.Close()

	reviews := make([]*models.Review, 0)
	for rows.Next() {
		var rv models.Review
		var rating int16
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rating, &rv.Comment, &rv.AIAccuracyFeedback, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		rv.Rating = models.Rating(rating)
		reviews = append(reviews, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}
