package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgExclusionViolation  = "23P01"
)

// wrapError translates driver errors into apperrors sentinels so callers can
// match them with errors.Is.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: referenced row missing: %w", op, apperrors.ErrNotFound)
		case pgCheckViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperrors.ErrInvalidInput)
		case pgExclusionViolation:
			// Only bookings_no_overlap uses an exclusion constraint.
			return fmt.Errorf("%s: %w", op, apperrors.ErrRoomUnavailable)
		}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}

// errNoRows marks an UPDATE or DELETE that matched nothing.
var errNoRows = pgx.ErrNoRows

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
