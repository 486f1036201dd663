package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/services"
)

// stubIdentity feeds a fixed identity to auth.Middleware.
type stubIdentity struct {
	identity auth.Identity
	ok       bool
}

func (s *stubIdentity) Identity(r *http.Request) (auth.Identity, bool) {
	return s.identity, s.ok
}

func newAuthMiddleware(identity *auth.Identity) *auth.Middleware {
	if identity == nil {
		return auth.NewMiddleware(&stubIdentity{}, zap.NewNop())
	}
	return auth.NewMiddleware(&stubIdentity{identity: *identity, ok: true}, zap.NewNop())
}

// passthroughScope stands in for database.WithScope.
func passthroughScope(next http.HandlerFunc) http.HandlerFunc {
	return next
}

type mockRankingService struct {
	result *models.RankingResult
	err    error
	calls  int
}

func (m *mockRankingService) Rank(ctx context.Context, prefs models.Preferences, rooms []models.RoomSummary) (*models.RankingResult, error) {
	m.calls++
	return m.result, m.err
}

type mockRecommendationService struct {
	reply       string
	err         error
	capturedReq models.ChatRequest
}

func (m *mockRecommendationService) Recommend(ctx context.Context, req models.ChatRequest) (string, error) {
	m.capturedReq = req
	return m.reply, m.err
}

type mockEvaluationService struct {
	evaluation    *models.PropertyEvaluation
	err           error
	evaluateCalls int
}

func (m *mockEvaluationService) Evaluate(ctx context.Context, propertyID uuid.UUID) (*models.PropertyEvaluation, error) {
	m.evaluateCalls++
	return m.evaluation, m.err
}

func (m *mockEvaluationService) GetEvaluation(ctx context.Context, propertyID uuid.UUID) (*models.PropertyEvaluation, error) {
	return m.evaluation, m.err
}

type mockPropertyService struct {
	property       *models.PropertyWithRooms
	properties     []*models.Property
	err            error
	capturedFilter models.PropertyFilter
	deleted        []uuid.UUID
}

func (m *mockPropertyService) Create(ctx context.Context, identity auth.Identity, input services.PropertyInput) (*models.Property, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Property{ID: uuid.New(), HostID: identity.UserID, Name: input.Name}, nil
}

func (m *mockPropertyService) Update(ctx context.Context, identity auth.Identity, id uuid.UUID, input services.PropertyInput) (*models.Property, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Property{ID: id, HostID: identity.UserID, Name: input.Name}, nil
}

func (m *mockPropertyService) Delete(ctx context.Context, identity auth.Identity, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockPropertyService) Get(ctx context.Context, id uuid.UUID) (*models.PropertyWithRooms, error) {
	return m.property, m.err
}

func (m *mockPropertyService) List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	m.capturedFilter = filter
	return m.properties, m.err
}

func (m *mockPropertyService) ListByHost(ctx context.Context, hostID uuid.UUID) ([]*models.Property, error) {
	return m.properties, m.err
}

type mockRoomService struct {
	rooms []*models.Room
	err   error
}

func (m *mockRoomService) Create(ctx context.Context, identity auth.Identity, propertyID uuid.UUID, input services.RoomInput) (*models.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Room{ID: uuid.New(), PropertyID: propertyID}, nil
}

func (m *mockRoomService) Update(ctx context.Context, identity auth.Identity, roomID uuid.UUID, input services.RoomInput) (*models.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Room{ID: roomID}, nil
}

func (m *mockRoomService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Room, error) {
	return m.rooms, m.err
}

type mockBookingService struct {
	booking       *models.Booking
	bookings      []*models.Booking
	err           error
	capturedInput services.BookingInput
	capturedGuest uuid.UUID
}

func (m *mockBookingService) Create(ctx context.Context, guestID uuid.UUID, input services.BookingInput) (*models.Booking, error) {
	m.capturedGuest = guestID
	m.capturedInput = input
	return m.booking, m.err
}

func (m *mockBookingService) List(ctx context.Context, guestID uuid.UUID) ([]*models.Booking, error) {
	m.capturedGuest = guestID
	return m.bookings, m.err
}

func (m *mockBookingService) Cancel(ctx context.Context, guestID, bookingID uuid.UUID) (*models.Booking, error) {
	m.capturedGuest = guestID
	return m.booking, m.err
}

type mockReviewService struct {
	submission    *services.ReviewSubmission
	err           error
	capturedInput services.ReviewInput
}

func (m *mockReviewService) Submit(ctx context.Context, guestID, bookingID uuid.UUID, input services.ReviewInput) (*services.ReviewSubmission, error) {
	m.capturedInput = input
	return m.submission, m.err
}
