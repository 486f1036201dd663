package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/database"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/prompts"
	"github.com/bookingai/bookingai-engine/pkg/repositories"
)

// txRunner runs fn inside a transaction; see database.WithTx.
type txRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// RegisterInput is the data accepted when creating an account.
type RegisterInput struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Bio      string      `json:"bio,omitempty"`
}

// UpdateProfileInput holds the editable account fields. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// UserService defines the interface for account operations.
type UserService interface {
	// Register creates a guest or host account together with its profile.
	Register(ctx context.Context, input RegisterInput) (*models.UserDetails, error)
	// Authenticate checks credentials. Unknown emails and wrong passwords
	// both yield apperrors.ErrUnauthorized.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.UserDetails, error)
	// UpdatePreferences stores a guest's preferences and the travel reason derived from them.
	UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs models.Preferences) (*models.GuestProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.UserDetails, error)
}

type userService struct {
	userRepo repositories.UserRepository
	withTx   txRunner
	logger   *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		withTx:   database.WithTx,
		logger:   logger.Named("users"),
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", apperrors.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email address", apperrors.ErrInvalidInput)
	}
	return email, nil
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.UserDetails, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	if input.Role == "" {
		input.Role = models.RoleGuest
	}
	// Admin accounts are provisioned out of band.
	if input.Role != models.RoleGuest && input.Role != models.RoleHost {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, input.Role)
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	details := &models.UserDetails{User: models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         input.Role,
	}}

	err = s.withTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, &details.User); err != nil {
			return err
		}
		switch details.Role {
		case models.RoleGuest:
			profile := &models.GuestProfile{UserID: details.ID, Preferences: models.Preferences{}}
			if err := s.userRepo.CreateGuestProfile(ctx, profile); err != nil {
				return err
			}
			details.GuestProfile = profile
		case models.RoleHost:
			profile := &models.HostProfile{UserID: details.ID, Bio: strings.TrimSpace(input.Bio)}
			if err := s.userRepo.CreateHostProfile(ctx, profile); err != nil {
				return err
			}
			details.HostProfile = profile
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
		}
		return nil, err
	}

	s.logger.Info("Registered user",
		zap.String("user_id", details.ID.String()),
		zap.String("role", string(details.Role)))

	return details, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, userID uuid.UUID) (*models.UserDetails, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := &models.UserDetails{User: *user}
	switch user.Role {
	case models.RoleGuest:
		profile, err := s.userRepo.GetGuestProfile(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		details.GuestProfile = profile
	case models.RoleHost:
		profile, err := s.userRepo.GetHostProfile(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		details.HostProfile = profile
	}
	return details, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs models.Preferences) (*models.GuestProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleGuest {
		return nil, fmt.Errorf("%w: only guests have travel preferences", apperrors.ErrForbidden)
	}
	if prefs == nil {
		prefs = models.Preferences{}
	}

	reason := prompts.PreferenceText(prefs)
	if err := s.userRepo.UpdatePreferences(ctx, userID, prefs, reason); err != nil {
		return nil, err
	}

	return &models.GuestProfile{UserID: userID, Preferences: prefs, TravelReason: reason}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.UserDetails, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrInvalidInput)
		}
		user.Name = name
	}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Bio != nil && user.Role != models.RoleHost {
		return nil, fmt.Errorf("%w: only hosts have a bio", apperrors.ErrInvalidInput)
	}

	err = s.withTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		if input.Bio != nil {
			return s.userRepo.UpdateHostBio(ctx, userID, strings.TrimSpace(*input.Bio))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
		}
		return nil, err
	}

	return s.Get(ctx, userID)
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)
