package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/llm"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

type reviewFixture struct {
	guestID  uuid.UUID
	booking  *models.Booking
	bookings *mockBookingRepository
	eval     *evaluationFixture
	service  ReviewService
}

func newReviewFixture(status models.BookingStatus) *reviewFixture {
	eval := newEvaluationFixture()
	guestID := uuid.New()
	booking := &models.Booking{ID: uuid.New(), GuestID: guestID, Status: status}
	bookings := newMockBookingRepository(booking)
	bookings.propertyID = eval.property.ID

	return &reviewFixture{
		guestID:  guestID,
		booking:  booking,
		bookings: bookings,
		eval:     eval,
		service:  NewReviewService(bookings, eval.reviews, eval.service, zap.NewNop()),
	}
}

func TestReviewService_Submit_StoresThenEvaluates(t *testing.T) {
	f := newReviewFixture(models.BookingConfirmed)
	f.eval.client.Response = "Lovely stay overall."

	sub, err := f.service.Submit(context.Background(), f.guestID, f.booking.ID, ReviewInput{
		Rating:             5,
		Comment:            " Great view ",
		AIAccuracyFeedback: "recommendation was spot on",
	})
	require.NoError(t, err)

	require.NotNil(t, sub.Review)
	assert.Equal(t, "Great view", sub.Review.Comment)
	assert.Equal(t, f.booking.ID, sub.Review.BookingID)

	require.NotNil(t, sub.Evaluation)
	assert.Equal(t, 1, sub.Evaluation.TotalReviews)
	assert.Equal(t, 5.0, sub.Evaluation.AverageRating)
	assert.Empty(t, sub.EvaluationError)
	assert.Contains(t, f.eval.client.LastPrompt(), "recommendation was spot on")
}

func TestReviewService_Submit_EvaluationFailureKeepsReview(t *testing.T) {
	f := newReviewFixture(models.BookingConfirmed)
	f.eval.client.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", llm.NewError(llm.ErrorTypeRateLimited, "quota", true, nil)
	}

	sub, err := f.service.Submit(context.Background(), f.guestID, f.booking.ID, ReviewInput{Rating: 2})
	require.NoError(t, err)

	assert.NotNil(t, f.eval.reviews.capturedReview)
	assert.Nil(t, sub.Evaluation)
	assert.Equal(t, "AI service rate limit reached", sub.EvaluationError)
	assert.Equal(t, 0, f.eval.properties.saveCalls)
}

func TestReviewService_Submit_Rejections(t *testing.T) {
	t.Run("rating out of range", func(t *testing.T) {
		f := newReviewFixture(models.BookingConfirmed)
		_, err := f.service.Submit(context.Background(), f.guestID, f.booking.ID, ReviewInput{Rating: 6})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("another guest's booking", func(t *testing.T) {
		f := newReviewFixture(models.BookingConfirmed)
		_, err := f.service.Submit(context.Background(), uuid.New(), f.booking.ID, ReviewInput{Rating: 4})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		f := newReviewFixture(models.BookingCancelled)
		_, err := f.service.Submit(context.Background(), f.guestID, f.booking.ID, ReviewInput{Rating: 4})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("already reviewed", func(t *testing.T) {
		f := newReviewFixture(models.BookingConfirmed)
		f.eval.reviews.createErr = apperrors.ErrConflict
		_, err := f.service.Submit(context.Background(), f.guestID, f.booking.ID, ReviewInput{Rating: 4})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Equal(t, 0, f.eval.client.GenerateCalls)
	})
}
