package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

// runInline stands in for database.WithTx in unit tests.
func runInline(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockUserRepository is a configurable mock for testing UserService.
type mockUserRepository struct {
	users        map[uuid.UUID]*models.User
	guestProfile *models.GuestProfile
	hostProfile  *models.HostProfile
	createErr    error
	updateErr    error

	capturedUser         *models.User
	capturedGuestProfile *models.GuestProfile
	capturedHostProfile  *models.HostProfile
	capturedPrefs        models.Preferences
	capturedReason       string
	capturedBio          *string
}

func newMockUserRepository(users ...*models.User) *mockUserRepository {
	m := &mockUserRepository{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = uuid.New()
	user.DateJoined = time.Now()
	m.capturedUser = user
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.capturedUser = user
	if m.updateErr != nil {
		return m.updateErr
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) CreateGuestProfile(ctx context.Context, profile *models.GuestProfile) error {
	m.capturedGuestProfile = profile
	m.guestProfile = profile
	return nil
}

func (m *mockUserRepository) GetGuestProfile(ctx context.Context, userID uuid.UUID) (*models.GuestProfile, error) {
	if m.guestProfile == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.guestProfile, nil
}

func (m *mockUserRepository) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs models.Preferences, travelReason string) error {
	m.capturedPrefs = prefs
	m.capturedReason = travelReason
	return nil
}

func (m *mockUserRepository) CreateHostProfile(ctx context.Context, profile *models.HostProfile) error {
	m.capturedHostProfile = profile
	m.hostProfile = profile
	return nil
}

func (m *mockUserRepository) GetHostProfile(ctx context.Context, userID uuid.UUID) (*models.HostProfile, error) {
	if m.hostProfile == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.hostProfile, nil
}

func (m *mockUserRepository) UpdateHostBio(ctx context.Context, userID uuid.UUID, bio string) error {
	m.capturedBio = &bio
	if m.hostProfile != nil {
		m.hostProfile.Bio = bio
	}
	return nil
}

// mockPropertyRepository is a configurable mock for property data access.
type mockPropertyRepository struct {
	properties map[uuid.UUID]*models.Property
	evaluation *models.PropertyEvaluation
	listed     []*models.Property
	getErr     error
	listErr    error
	saveErr    error

	capturedFilter     models.PropertyFilter
	capturedEvaluation *models.PropertyEvaluation
	deletedID          uuid.UUID
	saveCalls          int
	getEvaluationCalls int
}

func newMockPropertyRepository(properties ...*models.Property) *mockPropertyRepository {
	m := &mockPropertyRepository{properties: map[uuid.UUID]*models.Property{}}
	for _, p := range properties {
		m.properties[p.ID] = p
	}
	return m
}

func (m *mockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	property.ID = uuid.New()
	m.properties[property.ID] = property
	return nil
}

func (m *mockPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.properties[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPropertyRepository) List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	m.capturedFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listed, nil
}

func (m *mockPropertyRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]*models.Property, error) {
	var out []*models.Property
	for _, p := range m.properties {
		if p.HostID == hostID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	m.properties[property.ID] = property
	return nil
}

func (m *mockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.deletedID = id
	delete(m.properties, id)
	return nil
}

func (m *mockPropertyRepository) SaveEvaluation(ctx context.Context, id uuid.UUID, eval *models.PropertyEvaluation) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.capturedEvaluation = eval
	m.evaluation = eval
	return nil
}

func (m *mockPropertyRepository) GetEvaluation(ctx context.Context, id uuid.UUID) (*models.PropertyEvaluation, error) {
	m.getEvaluationCalls++
	if _, ok := m.properties[id]; !ok {
		return nil, apperrors.ErrNotFound
	}
	return m.evaluation, nil
}

// mockRoomRepository is a configurable mock for room data access.
type mockRoomRepository struct {
	rooms map[uuid.UUID]*models.Room

	capturedRoom *models.Room
	lockedIDs    []uuid.UUID
}

func newMockRoomRepository(rooms ...*models.Room) *mockRoomRepository {
	m := &mockRoomRepository{rooms: map[uuid.UUID]*models.Room{}}
	for _, r := range rooms {
		m.rooms[r.ID] = r
	}
	return m
}

func (m *mockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	room.ID = uuid.New()
	m.capturedRoom = room
	m.rooms[room.ID] = room
	return nil
}

func (m *mockRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRoomRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	m.lockedIDs = append(m.lockedIDs, id)
	return m.GetByID(ctx, id)
}

func (m *mockRoomRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Room, error) {
	var out []*models.Room
	for _, r := range m.rooms {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRoomRepository) Update(ctx context.Context, room *models.Room) error {
	m.capturedRoom = room
	m.rooms[room.ID] = room
	return nil
}

func (m *mockRoomRepository) SetAvailability(ctx context.Context, id uuid.UUID, status models.AvailabilityStatus) error {
	r, ok := m.rooms[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.AvailabilityStatus = status
	return nil
}

// mockBookingRepository is a configurable mock for booking data access.
type mockBookingRepository struct {
	bookings   map[uuid.UUID]*models.Booking
	propertyID uuid.UUID
	overlap    bool

	capturedBooking *models.Booking
	capturedStatus  models.BookingStatus
}

func newMockBookingRepository(bookings ...*models.Booking) *mockBookingRepository {
	m := &mockBookingRepository{bookings: map[uuid.UUID]*models.Booking{}}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = uuid.New()
	m.capturedBooking = booking
	m.bookings[booking.ID] = booking
	return nil
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	m.capturedStatus = status
	if b, ok := m.bookings[id]; ok {
		b.Status = status
	}
	return nil
}

func (m *mockBookingRepository) HasOverlap(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	return m.overlap, nil
}

func (m *mockBookingRepository) GetPropertyID(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	if _, ok := m.bookings[bookingID]; !ok {
		return uuid.Nil, apperrors.ErrNotFound
	}
	return m.propertyID, nil
}

// mockReviewRepository is a configurable mock for review data access.
type mockReviewRepository struct {
	reviews   []*models.Review
	createErr error

	capturedReview *models.Review
}

func (m *mockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if m.createErr != nil {
		return m.createErr
	}
	review.ID = uuid.New()
	m.capturedReview = review
	m.reviews = append([]*models.Review{review}, m.reviews...)
	return nil
}

func (m *mockReviewRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Review, error) {
	return m.reviews, nil
}

// mockFavoriteRepository is a configurable mock for favorites.
type mockFavoriteRepository struct {
	favorites []*models.Property

	addCalls    int
	removeCalls int
}

func (m *mockFavoriteRepository) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	m.addCalls++
	return nil
}

func (m *mockFavoriteRepository) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	m.removeCalls++
	return nil
}

func (m *mockFavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Property, error) {
	return m.favorites, nil
}

// mockEvaluationCache records cache traffic.
type mockEvaluationCache struct {
	entries map[uuid.UUID]*models.PropertyEvaluation
	getErr  error

	setCalls    int
	deleteCalls int
}

func newMockEvaluationCache() *mockEvaluationCache {
	return &mockEvaluationCache{entries: map[uuid.UUID]*models.PropertyEvaluation{}}
}

func (m *mockEvaluationCache) Get(ctx context.Context, propertyID uuid.UUID) (*models.PropertyEvaluation, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.entries[propertyID], nil
}

func (m *mockEvaluationCache) Set(ctx context.Context, propertyID uuid.UUID, eval *models.PropertyEvaluation) error {
	m.setCalls++
	m.entries[propertyID] = eval
	return nil
}

func (m *mockEvaluationCache) Delete(ctx context.Context, propertyID uuid.UUID) error {
	m.deleteCalls++
	delete(m.entries, propertyID)
	return nil
}
