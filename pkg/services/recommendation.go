package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/llm"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/prompts"
	"github.com/bookingai/bookingai-engine/pkg/repositories"
)

// RecommendationService answers free-text hotel questions.
type RecommendationService interface {
	// Recommend returns the assistant's prose reply. When the request lists no
	// hotels, listed properties are offered as candidates. AI errors are returned.
	Recommend(ctx context.Context, req models.ChatRequest) (string, error)
}

type recommendationService struct {
	propertyRepo repositories.PropertyRepository
	llmClient    llm.LLMClient
	hotelCap     int
	logger       *zap.Logger
}

// NewRecommendationService creates a new recommendation service. hotelCap
// bounds the hotels placed in the prompt; non-positive uses the default.
func NewRecommendationService(
	propertyRepo repositories.PropertyRepository,
	llmClient llm.LLMClient,
	hotelCap int,
	logger *zap.Logger,
) RecommendationService {
	if hotelCap <= 0 {
		hotelCap = prompts.DefaultChatHotelCap
	}
	return &recommendationService{
		propertyRepo: propertyRepo,
		llmClient:    llmClient,
		hotelCap:     hotelCap,
		logger:       logger.Named("recommendation"),
	}
}

func (s *recommendationService) Recommend(ctx context.Context, req models.ChatRequest) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", apperrors.ErrInvalidInput)
	}

	hotels := req.Hotels
	if len(hotels) == 0 {
		listed, err := s.listedHotels(ctx)
		if err != nil {
			return "", err
		}
		hotels = listed
	}

	ctx = llm.WithOperation(ctx, llm.OperationChat)
	reply, err := s.llmClient.Generate(ctx, prompts.BuildChatPrompt(message, req.Preferences, hotels, s.hotelCap))
	if err != nil {
		return "", fmt.Errorf("chat recommendation: %w", err)
	}
	return reply, nil
}

func (s *recommendationService) listedHotels(ctx context.Context) ([]models.HotelSummary, error) {
	properties, err := s.propertyRepo.List(ctx, models.PropertyFilter{Limit: s.hotelCap})
	if err != nil {
		return nil, err
	}
	hotels := make([]models.HotelSummary, 0, len(properties))
	for _, p := range properties {
		hotels = append(hotels, models.HotelSummary{Name: p.Name, Price: p.PricePerNight})
	}
	return hotels, nil
}

// Ensure recommendationService implements RecommendationService at compile time.
var _ RecommendationService = (*recommendationService)(nil)
