package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const bookingNotFound = "Booking not found"

// BookingRepository handles booking database operations
type BookingRepository struct {
	db        *sqlx.DB
	relations relationLoader
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db, relations: relationLoader{db: db}}
}

// ============================================================================
// LIFECYCLE WRITES
// ============================================================================

// Create inserts a pending booking and its first history row in one transaction.
// Fails with Conflict when a pending/processing booking already holds the slot;
// bookings_active_slot_idx catches inserts racing past the check.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err, "begin transaction", "")
	}
	defer tx.Rollback()

	var taken bool
	err = tx.GetContext(ctx, &taken, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE booking_date = $1 AND time_slot = $2 AND status IN ('pending', 'processing')
		)`, booking.Date, booking.TimeSlot)
	if err != nil {
		return classify(err, "check slot availability", "")
	}
	if taken {
		return apperror.NewConflict("Time slot is already booked")
	}

	now := time.Now()
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.Status = models.BookingStatusPending
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		booking.ID, booking.UserID, booking.ServiceID, booking.VehicleID,
		booking.Date, booking.TimeSlot, booking.Location, booking.Notes,
		booking.Status, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return classify(err, "create booking", "")
	}

	if err := appendHistory(ctx, tx, booking.ID, booking.Status, models.HistoryNoteCreated, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(err, "commit booking", "")
	}
	return nil
}

// Cancel cancels a booking owned by userID and refunds its paid transaction,
// all in one transaction. The returned transaction is nil when nothing was refunded.
func (r *BookingRepository) Cancel(ctx context.Context, id, userID uuid.UUID, note string) (*models.Booking, *models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, classify(err, "begin transaction", "")
	}
	defer tx.Rollback()

	var booking models.Booking
	err = tx.GetContext(ctx, &booking,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID)
	if err != nil {
		return nil, nil, classify(err, "get booking", bookingNotFound)
	}

	if !booking.Status.CanTransitionTo(models.BookingStatusCancelled) {
		if booking.Status == models.BookingStatusDone {
			return nil, nil, apperror.NewConflict("Cannot cancel completed booking")
		}
		return nil, nil, apperror.NewConflict("Booking is already cancelled")
	}

	now := time.Now()
	if err := setBookingStatus(ctx, tx, id, models.BookingStatusCancelled, now); err != nil {
		return nil, nil, err
	}
	booking.Status = models.BookingStatusCancelled
	booking.UpdatedAt = now

	if err := appendHistory(ctx, tx, id, models.BookingStatusCancelled, note, now); err != nil {
		return nil, nil, err
	}

	var refunded models.Transaction
	err = tx.GetContext(ctx, &refunded, `
		UPDATE transactions SET status = 'refunded', updated_at = $2
		WHERE booking_id = $1 AND status = 'paid'
		RETURNING `+transactionColumns, id, now)
	var refundedPtr *models.Transaction
	switch {
	case err == nil:
		refundedPtr = &refunded
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, nil, classify(err, "refund transaction", "")
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, classify(err, "commit cancellation", "")
	}
	return &booking, refundedPtr, nil
}

// OverrideStatus is the admin escape hatch: it writes any status without
// consulting the transition graph and records the change in the history.
func (r *BookingRepository) OverrideStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus, note string) (*models.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, classify(err, "begin transaction", "")
	}
	defer tx.Rollback()

	var booking models.Booking
	err = tx.GetContext(ctx, &booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, classify(err, "get booking", bookingNotFound)
	}

	now := time.Now()
	if err := setBookingStatus(ctx, tx, id, status, now); err != nil {
		return nil, err
	}
	if err := appendHistory(ctx, tx, id, status, note, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, classify(err, "commit status update", "")
	}

	booking.Status = status
	booking.UpdatedAt = now
	return &booking, nil
}

// setBookingStatus updates the status inside tx. A move back into pending/processing
// may hit bookings_active_slot_idx, which classify reports as Conflict.
func setBookingStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status models.BookingStatus, now time.Time) error {
	_, err := tx.ExecContext(ctx, `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`, id, status, now)
	return classify(err, "update booking status", bookingNotFound)
}

// appendHistory writes one audit row inside tx
func appendHistory(ctx context.Context, tx *sqlx.Tx, bookingID uuid.UUID, status models.BookingStatus, note string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO booking_status_history (id, booking_id, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), bookingID, status, models.NewNullString(note), now,
	)
	return classify(err, "append booking history", "")
}

// ============================================================================
// READS
// ============================================================================

// BookedSlots returns the slots held by pending/processing bookings on date
func (r *BookingRepository) BookedSlots(ctx context.Context, date time.Time) ([]string, error) {
	slots := []string{}
	err := r.db.SelectContext(ctx, &slots, `
		SELECT time_slot FROM bookings
		WHERE booking_date = $1 AND status IN ('pending', 'processing')
		ORDER BY time_slot`, date)
	if err != nil {
		return nil, classify(err, "list booked slots", "")
	}
	return slots, nil
}

// GetForUser retrieves a booking owned by userID
func (r *BookingRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.GetContext(ctx, &booking,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, classify(err, "get booking", bookingNotFound)
	}
	return &booking, nil
}

// GetDetail retrieves a booking owned by userID with the requested relations
func (r *BookingRepository) GetDetail(ctx context.Context, id, userID uuid.UUID, rel Relations) (*models.BookingDetail, error) {
	booking, err := r.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	details := []models.BookingDetail{{Booking: *booking}}
	if err := r.relations.attach(ctx, details, rel); err != nil {
		return nil, err
	}
	return &details[0], nil
}

// List returns one page of bookings matching filter, newest first, and the total count
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter, page models.PageRequest, rel Relations) ([]models.BookingDetail, int, error) {
	var where whereClause
	if filter.UserID != nil {
		where.add("user_id = $%d", *filter.UserID)
	}
	if filter.VehicleID != nil {
		where.add("vehicle_id = $%d", *filter.VehicleID)
	}
	if filter.Status != nil {
		where.add("status = $%d", *filter.Status)
	}
	if filter.StartDate != nil {
		where.add("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		where.add("created_at <= $%d", *filter.EndDate)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings`+where.String(), where.args...); err != nil {
		return nil, 0, classify(err, "count bookings", "")
	}

	limit, args := where.page(page)
	bookings := []models.Booking{}
	query := fmt.Sprintf(`SELECT %s FROM bookings%s ORDER BY created_at DESC%s`, bookingColumns, where.String(), limit)
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, classify(err, "list bookings", "")
	}

	details := toDetails(bookings)
	if err := r.relations.attach(ctx, details, rel); err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// CountActiveByService counts pending/processing bookings of a service
func (r *BookingRepository) CountActiveByService(ctx context.Context, serviceID uuid.UUID) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM bookings WHERE service_id = $1 AND status IN ('pending', 'processing')`, serviceID)
	if err != nil {
		return 0, classify(err, "count active bookings", "")
	}
	return n, nil
}

// CountActiveByVehicle counts pending/processing bookings of a vehicle
func (r *BookingRepository) CountActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM bookings WHERE vehicle_id = $1 AND status IN ('pending', 'processing')`, vehicleID)
	if err != nil {
		return 0, classify(err, "count active bookings", "")
	}
	return n, nil
}
