package usecase

import (
	"errors"
	"strings"

	"go-medical-scheduling/internal/domain/availability"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrForbidden         = errors.New("you don't have permission to modify this resource")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)

// ErrBookingRejected matches every *BookingRejectedError with errors.Is.
var ErrBookingRejected = errors.New("booking rejected")

// BookingRejectedError carries the reason a requested time cannot be booked.
type BookingRejectedError struct {
	Reason availability.RejectReason
}

func (e *BookingRejectedError) Error() string {
	return e.Reason.Message()
}

func (e *BookingRejectedError) Is(target error) bool {
	return target == ErrBookingRejected
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
