package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/logging"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/repositories"
)

// ReviewInput is a guest's review of a booking.
type ReviewInput struct {
	Rating             models.Rating `json:"rating"`
	Comment            string        `json:"comment"`
	AIAccuracyFeedback string        `json:"ai_accuracy_feedback"`
}

// ReviewSubmission is the stored review plus the outcome of re-evaluating the
// reviewed property. EvaluationError is set when the evaluation failed; the
// review is kept regardless.
type ReviewSubmission struct {
	Review          *models.Review             `json:"review"`
	Evaluation      *models.PropertyEvaluation `json:"evaluation,omitempty"`
	EvaluationError string                     `json:"evaluation_error,omitempty"`
}

// ReviewService defines the interface for review operations.
type ReviewService interface {
	// Submit stores a review of the guest's own booking and then evaluates the
	// booking's property.
	Submit(ctx context.Context, guestID, bookingID uuid.UUID, input ReviewInput) (*ReviewSubmission, error)
}

type reviewService struct {
	bookingRepo repositories.BookingRepository
	reviewRepo  repositories.ReviewRepository
	evaluations EvaluationService
	logger      *zap.Logger
}

// NewReviewService creates a new review service with dependencies.
func NewReviewService(
	bookingRepo repositories.BookingRepository,
	reviewRepo repositories.ReviewRepository,
	evaluations EvaluationService,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		evaluations: evaluations,
		logger:      logger.Named("reviews"),
	}
}

func (s *reviewService) Submit(ctx context.Context, guestID, bookingID uuid.UUID, input ReviewInput) (*ReviewSubmission, error) {
	if !input.Rating.Valid() {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrInvalidInput, models.MinRating, models.MaxRating)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != guestID {
		return nil, fmt.Errorf("%w: booking belongs to another guest", apperrors.ErrForbidden)
	}
	if booking.Status == models.BookingCancelled {
		return nil, fmt.Errorf("%w: cancelled bookings cannot be reviewed", apperrors.ErrInvalidInput)
	}

	propertyID, err := s.bookingRepo.GetPropertyID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		BookingID:          bookingID,
		Rating:             input.Rating,
		Comment:            strings.TrimSpace(input.Comment),
		AIAccuracyFeedback: strings.TrimSpace(input.AIAccuracyFeedback),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("Review stored",
		zap.String("review_id", review.ID.String()),
		zap.String("property_id", propertyID.String()))

	submission := &ReviewSubmission{Review: review}

	eval, err := s.evaluations.Evaluate(ctx, propertyID)
	if err != nil {
		s.logger.Warn("Evaluation after review failed",
			zap.String("property_id", propertyID.String()),
			zap.String("error", logging.SanitizeError(err)))
		submission.EvaluationError = evaluationErrorMessage(err)
		return submission, nil
	}
	submission.Evaluation = eval

	return submission, nil
}

// Ensure reviewService implements ReviewService at compile time.
var _ ReviewService = (*reviewService)(nil)
