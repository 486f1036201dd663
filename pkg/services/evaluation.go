package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/llm"
	"github.com/bookingai/bookingai-engine/pkg/logging"
	"github.com/bookingai/bookingai-engine/pkg/metrics"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/prompts"
	"github.com/bookingai/bookingai-engine/pkg/repositories"
	"github.com/bookingai/bookingai-engine/pkg/validation"
)

// EvaluationService produces and serves AI quality evaluations of properties.
type EvaluationService interface {
	// Evaluate summarises every review of the property with one AI call and
	// stores the result, replacing any previous evaluation. A property without
	// reviews yields the "N/A" evaluation without calling the AI client and
	// without storing anything. AI failures are returned unchanged in kind
	// (see llm.IsRateLimited) and leave the stored evaluation untouched.
	Evaluate(ctx context.Context, propertyID uuid.UUID) (*models.PropertyEvaluation, error)

	// GetEvaluation returns the stored evaluation, or apperrors.ErrNotFound if
	// the property has never been evaluated.
	GetEvaluation(ctx context.Context, propertyID uuid.UUID) (*models.PropertyEvaluation, error)
}

type evaluationService struct {
	propertyRepo repositories.PropertyRepository
	reviewRepo   repositories.ReviewRepository
	cache        repositories.EvaluationCache
	llmClient    llm.LLMClient
	now          func() time.Time
	logger       *zap.Logger
}

// NewEvaluationService creates a new evaluation service with dependencies.
func NewEvaluationService(
	propertyRepo repositories.PropertyRepository,
	reviewRepo repositories.ReviewRepository,
	cache repositories.EvaluationCache,
	llmClient llm.LLMClient,
	logger *zap.Logger,
) EvaluationService {
	return &evaluationService{
		propertyRepo: propertyRepo,
		reviewRepo:   reviewRepo,
		cache:        cache,
		llmClient:    llmClient,
		now:          time.Now,
		logger:       logger.Named("evaluation"),
	}
}

// averageRating is the arithmetic mean of the ratings, or 0 for none.
func averageRating(reviews []*models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += int(r.Rating)
	}
	return float64(sum) / float64(len(reviews))
}

func (s *evaluationService) Evaluate(ctx context.Context, propertyID uuid.UUID) (*models.PropertyEvaluation, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if len(reviews) == 0 {
		metrics.Evaluations.WithLabelValues(metrics.EvaluationNoReviews).Inc()
		s.logger.Debug("Property has no reviews, skipping AI evaluation",
			zap.String("property_id", propertyID.String()))
		return models.NoReviewsEvaluation(s.now()), nil
	}

	agg := &models.EvaluationAggregate{
		Property:      property,
		Reviews:       reviews,
		AverageRating: averageRating(reviews),
		ReviewCount:   len(reviews),
	}

	ctx = llm.WithOperation(ctx, llm.OperationEvaluation)
	text, err := s.llmClient.Generate(ctx, prompts.BuildEvaluationPrompt(agg))
	if err != nil {
		metrics.Evaluations.WithLabelValues(metrics.EvaluationFailed).Inc()
		s.logger.Warn("Property evaluation failed",
			zap.String("property_id", propertyID.String()),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("evaluate property %s: %w", propertyID, err)
	}

	eval := &models.PropertyEvaluation{
		TotalReviews:  agg.ReviewCount,
		AverageRating: agg.AverageRating,
		Evaluation:    text,
		GeneratedAt:   s.now().UTC(),
	}
	if assessment, ok := validation.ParseEvaluation(text); ok {
		eval.Assessment = assessment
	}

	if err := s.propertyRepo.SaveEvaluation(ctx, propertyID, eval); err != nil {
		metrics.Evaluations.WithLabelValues(metrics.EvaluationFailed).Inc()
		return nil, err
	}
	// Drop the cached copy rather than overwrite it: a concurrent evaluation may
	// have saved after us, and the next read repopulates from the database.
	if err := s.cache.Delete(ctx, propertyID); err != nil {
		s.logger.Warn("Failed to invalidate cached evaluation",
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
	}

	metrics.Evaluations.WithLabelValues(metrics.EvaluationGenerated).Inc()
	s.logger.Info("Property evaluated",
		zap.String("property_id", propertyID.String()),
		zap.Int("total_reviews", eval.TotalReviews),
		zap.Float64("average_rating", eval.AverageRating),
		zap.Bool("structured", eval.Assessment != nil))

	return eval, nil
}

func (s *evaluationService) GetEvaluation(ctx context.Context, propertyID uuid.UUID) (*models.PropertyEvaluation, error) {
	cached, err := s.cache.Get(ctx, propertyID)
	if err != nil {
		s.logger.Warn("Failed to read evaluation cache",
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	eval, err := s.propertyRepo.GetEvaluation(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if eval == nil {
		return nil, fmt.Errorf("%w: property has not been evaluated", apperrors.ErrNotFound)
	}

	if err := s.cache.Set(ctx, propertyID, eval); err != nil {
		s.logger.Warn("Failed to cache evaluation",
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
	}
	return eval, nil
}

// Ensure evaluationService implements EvaluationService at compile time.
var _ EvaluationService = (*evaluationService)(nil)

// evaluationErrorMessage is the client-safe description of an evaluation failure.
func evaluationErrorMessage(err error) string {
	switch llm.GetErrorType(err) {
	case llm.ErrorTypeRateLimited:
		return "AI service rate limit reached"
	case llm.ErrorTypeConfig:
		return "AI service is not configured"
	case llm.ErrorTypeTransport, llm.ErrorTypeUpstream:
		return "AI service unavailable"
	}
	return "evaluation failed"
}
