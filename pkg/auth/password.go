package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// passwordSpecialChars is the set of characters that satisfy the special-character rule.
const passwordSpecialChars = ".!@#$%^&*()-_=+"

// ValidatePassword checks a password against the account password policy:
// at least MinPasswordLength characters with a digit, a special character,
// an uppercase and a lowercase letter. The returned error wraps
// apperrors.ErrWeakPassword and lists every unmet rule.
func ValidatePassword(password string) error {
	var missing []string

	if len([]rune(password)) < MinPasswordLength {
		missing = append(missing, fmt.Sprintf("at least %d characters", MinPasswordLength))
	}

	var hasDigit, hasSpecial, hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case strings.ContainsRune(passwordSpecialChars, r):
			hasSpecial = true
		}
	}

	if !hasDigit {
		missing = append(missing, "a digit")
	}
	if !hasSpecial {
		missing = append(missing, "a special character ("+passwordSpecialChars+")")
	}
	if !hasUpper {
		missing = append(missing, "an uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "a lowercase letter")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: must contain %s", apperrors.ErrWeakPassword, strings.Join(missing, ", "))
	}
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
