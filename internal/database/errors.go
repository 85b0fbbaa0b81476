package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// conflictMessages maps unique constraints to client-facing messages
var conflictMessages = map[string]string{
	"users_email_key":             "Email already in use",
	"vehicles_plate_number_key":   "Vehicle with this plate number already exists",
	"bookings_active_slot_idx":    "Time slot is already booked",
	"transactions_booking_id_key": "Transaction already exists for this booking",
	"reviews_booking_id_key":      "Review already exists for this booking",
}

// uniqueConstraint returns the violated constraint name of a unique violation
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return pqErr.Constraint, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// isConnectionError reports whether err means the database could not be reached
func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify converts a driver error into an application error.
// notFound is the message used for sql.ErrNoRows.
func classify(err error, op, notFound string) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFound(notFound)
	}

	if constraint, ok := uniqueConstraint(err); ok {
		msg, known := conflictMessages[constraint]
		if !known {
			msg = "Duplicate field value entered"
		}
		return apperror.Wrap(apperror.Conflict, msg, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || isConnectionError(err) {
		return apperror.Wrap(apperror.Unavailable, "Database unavailable", err)
	}

	return apperror.Wrap(apperror.Internal, "failed to "+op, err)
}
