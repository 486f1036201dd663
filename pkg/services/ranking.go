package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/llm"
	"github.com/bookingai/bookingai-engine/pkg/logging"
	"github.com/bookingai/bookingai-engine/pkg/metrics"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/prompts"
	"github.com/bookingai/bookingai-engine/pkg/validation"
)

// RankingService orders candidate rooms by fit to a guest's preferences.
type RankingService interface {
	// Rank returns the room ids ordered by preference fit. Rooms must be
	// non-empty with unique, non-empty ids (apperrors.ErrInvalidInput otherwise,
	// with no AI call). Any AI or validation failure returns the input order.
	Rank(ctx context.Context, prefs models.Preferences, rooms []models.RoomSummary) (*models.RankingResult, error)
}

type rankingService struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
}

// NewRankingService creates a new ranking service.
func NewRankingService(llmClient llm.LLMClient, logger *zap.Logger) RankingService {
	return &rankingService{
		llmClient: llmClient,
		logger:    logger.Named("ranking"),
	}
}

// roomIDs returns the ids in input order after checking the ranking preconditions.
func roomIDs(rooms []models.RoomSummary) ([]string, error) {
	if len(rooms) == 0 {
		return nil, fmt.Errorf("%w: rooms list is required", apperrors.ErrInvalidInput)
	}

	ids := make([]string, 0, len(rooms))
	seen := make(map[string]struct{}, len(rooms))
	for i, room := range rooms {
		if strings.TrimSpace(room.ID) == "" {
			return nil, fmt.Errorf("%w: room at index %d has no id", apperrors.ErrInvalidInput, i)
		}
		if _, dup := seen[room.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate room id %q", apperrors.ErrInvalidInput, room.ID)
		}
		seen[room.ID] = struct{}{}
		ids = append(ids, room.ID)
	}
	return ids, nil
}

func (s *rankingService) Rank(ctx context.Context, prefs models.Preferences, rooms []models.RoomSummary) (*models.RankingResult, error) {
	ids, err := roomIDs(rooms)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithOperation(ctx, llm.OperationRanking)
	text, err := s.llmClient.Generate(ctx, prompts.BuildRankingPrompt(prefs, rooms))
	if err != nil {
		reason := string(llm.GetErrorType(err))
		if reason == "" {
			reason = "ai_error"
		}
		return s.fallback(ids, reason, logging.SanitizeError(err)), nil
	}

	outcome := validation.ValidateRanking(text, ids)
	if !outcome.Accepted() {
		return s.fallback(ids, string(outcome.Kind), outcome.Reason), nil
	}

	s.logger.Debug("Rooms ranked", zap.Int("room_count", len(ids)))
	return &models.RankingResult{SortedRoomIDs: outcome.SortedIDs}, nil
}

func (s *rankingService) fallback(ids []string, reason, detail string) *models.RankingResult {
	metrics.RankingFallbacks.WithLabelValues(reason).Inc()
	s.logger.Warn("AI ranking unusable, returning input order",
		zap.String("reason", reason),
		zap.String("detail", logging.TruncateString(detail, 200)),
		zap.Int("room_count", len(ids)))

	return &models.RankingResult{
		SortedRoomIDs:  ids,
		Fallback:       true,
		FallbackReason: reason,
	}
}

// Ensure rankingService implements RankingService at compile time.
var _ RankingService = (*rankingService)(nil)
