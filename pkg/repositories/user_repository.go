package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookingai/bookingai-engine/pkg/database"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

// UserRepository defines the interface for user and profile data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	CreateGuestProfile(ctx context.Context, profile *models.GuestProfile) error
	GetGuestProfile(ctx context.Context, userID uuid.UUID) (*models.GuestProfile, error)
	// UpdatePreferences replaces the stored preferences and the derived travel reason.
	UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs models.Preferences, travelReason string) error

	CreateHostProfile(ctx context.Context, profile *models.HostProfile) error
	GetHostProfile(ctx context.Context, userID uuid.UUID) (*models.HostProfile, error)
	UpdateHostBio(ctx context.Context, userID uuid.UUID, bio string) error
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct{}

// NewUserRepository creates a new user repository.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

const userColumns = `id, email, name, password_hash, role, date_joined`

// Create inserts a user. Emails are stored lower-cased; a duplicate email
// yields apperrors.ErrConflict.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.DateJoined = time.Now().UTC()

	query := `
		INSERT INTO users (id, email, name, password_hash, role, date_joined)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = q.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		user.DateJoined,
	)
	return wrapError("create user", err)
}

// GetByID retrieves a user by id.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, wrapError("get user", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	user, err := scanUser(row)
	if err != nil {
		return nil, wrapError("get user by email", err)
	}
	return user, nil
}

// Update saves the user's name and email.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	result, err := q.Exec(ctx, `UPDATE users SET name = $1, email = $2 WHERE id = $3`,
		user.Name, user.Email, user.ID)
	if err != nil {
		return wrapError("update user", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("update user", errNoRows)
	}
	return nil
}

func (r *userRepository) CreateGuestProfile(ctx context.Context, profile *models.GuestProfile) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	prefs := profile.Preferences
	if prefs == nil {
		prefs = models.Preferences{}
	}
	prefsJSON, err := jsonbParam(prefs)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO guest_profiles (user_id, preferences, travel_reason)
		VALUES ($1, $2, $3)`,
		profile.UserID, prefsJSON, profile.TravelReason)
	return wrapError("create guest profile", err)
}

func (r *userRepository) GetGuestProfile(ctx context.Context, userID uuid.UUID) (*models.GuestProfile, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	var profile models.GuestProfile
	var prefsJSON []byte
	err = q.QueryRow(ctx, `
		SELECT user_id, preferences, travel_reason
		FROM guest_profiles WHERE user_id = $1`, userID).
		Scan(&profile.UserID, &prefsJSON, &profile.TravelReason)
	if err != nil {
		return nil, wrapError("get guest profile", err)
	}

	if len(prefsJSON) > 0 {
		if err := json.Unmarshal(prefsJSON, &profile.Preferences); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
		}
	}
	if profile.Preferences == nil {
		profile.Preferences = models.Preferences{}
	}

	return &profile, nil
}

func (r *userRepository) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs models.Preferences, travelReason string) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	if prefs == nil {
		prefs = models.Preferences{}
	}
	prefsJSON, err := jsonbParam(prefs)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `
		UPDATE guest_profiles SET preferences = $1, travel_reason = $2
		WHERE user_id = $3`,
		prefsJSON, travelReason, userID)
	if err != nil {
		return wrapError("update preferences", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("update preferences", errNoRows)
	}
	return nil
}

func (r *userRepository) CreateHostProfile(ctx context.Context, profile *models.HostProfile) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO host_profiles (user_id, bio, verified)
		VALUES ($1, $2, $3)`,
		profile.UserID, profile.Bio, profile.Verified)
	return wrapError("create host profile", err)
}

func (r *userRepository) GetHostProfile(ctx context.Context, userID uuid.UUID) (*models.HostProfile, error) {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return nil, err
	}

	var profile models.HostProfile
	err = q.QueryRow(ctx, `
		SELECT user_id, bio, verified FROM host_profiles WHERE user_id = $1`, userID).
		Scan(&profile.UserID, &profile.Bio, &profile.Verified)
	if err != nil {
		return nil, wrapError("get host profile", err)
	}
	return &profile, nil
}

func (r *userRepository) UpdateHostBio(ctx context.Context, userID uuid.UUID, bio string) error {
	q, err := database.QuerierFrom(ctx)
	if err != nil {
		return err
	}

	result, err := q.Exec(ctx, `UPDATE host_profiles SET bio = $1 WHERE user_id = $2`, bio, userID)
	if err != nil {
		return wrapError("update host bio", err)
	}
	if result.RowsAffected() == 0 {
		return wrapError("update host bio", errNoRows)
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.DateJoined); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}
