package database

import (
	"context"
	"time"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const transactionNotFound = "Transaction not found"

// TransactionRepository handles payments and their effect on bookings
type TransactionRepository struct {
	db        *sqlx.DB
	relations relationLoader
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db, relations: relationLoader{db: db}}
}

// Create inserts a pending transaction for a booking that has none.
// transactions_booking_id_key rejects a racing duplicate.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE booking_id = $1)`, txn.BookingID)
	if err != nil {
		return classify(err, "check transaction", "")
	}
	if exists {
		return apperror.NewConflict("Transaction already exists for this booking")
	}

	now := time.Now()
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.Status = models.TransactionStatusPending
	txn.CreatedAt = now
	txn.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.BookingID, txn.UserID, txn.Amount, txn.Method, txn.Status, txn.CreatedAt, txn.UpdatedAt,
	)
	return classify(err, "create transaction", "")
}

// GetDetail retrieves a transaction owned by userID with its booking
func (r *TransactionRepository) GetDetail(ctx context.Context, id, userID uuid.UUID) (*models.TransactionDetail, error) {
	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, classify(err, "get transaction", transactionNotFound)
	}
	details := []models.TransactionDetail{{Transaction: txn}}
	if err := r.attach(ctx, details, false); err != nil {
		return nil, err
	}
	return &details[0], nil
}

// List returns one page of transactions, newest first, with booking and
// (when withUser) payer summary attached
func (r *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter, page models.PageRequest, withUser bool) ([]models.TransactionDetail, int, error) {
	var where whereClause
	if filter.UserID != nil {
		where.add("user_id = $%d", *filter.UserID)
	}
	if filter.Status != nil {
		where.add("status = $%d", *filter.Status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM transactions`+where.String(), where.args...); err != nil {
		return nil, 0, classify(err, "count transactions", "")
	}

	limit, args := where.page(page)
	txns := []models.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where.String() + ` ORDER BY created_at DESC` + limit
	if err := r.db.SelectContext(ctx, &txns, query, args...); err != nil {
		return nil, 0, classify(err, "list transactions", "")
	}

	details := make([]models.TransactionDetail, len(txns))
	for i, t := range txns {
		details[i] = models.TransactionDetail{Transaction: t}
	}
	if err := r.attach(ctx, details, withUser); err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

func (r *TransactionRepository) attach(ctx context.Context, details []models.TransactionDetail, withUser bool) error {
	if len(details) == 0 {
		return nil
	}
	bookingIDs := make([]uuid.UUID, len(details))
	userIDs := make([]uuid.UUID, len(details))
	for i, d := range details {
		bookingIDs[i] = d.BookingID
		userIDs[i] = d.UserID
	}

	var bookings []models.Booking
	if err := r.relations.selectIn(ctx, &bookings, `SELECT `+bookingColumns+` FROM bookings WHERE id IN (?)`, unique(bookingIDs)); err != nil {
		return classify(err, "load transaction bookings", "")
	}
	byID := make(map[uuid.UUID]*models.Booking, len(bookings))
	for i := range bookings {
		byID[bookings[i].ID] = &bookings[i]
	}
	for i := range details {
		details[i].Booking = byID[details[i].BookingID]
	}

	if withUser {
		users, err := r.relations.userSummaries(ctx, userIDs)
		if err != nil {
			return err
		}
		for i := range details {
			details[i].User = users[details[i].UserID]
		}
	}
	return nil
}

// Confirm marks a pending transaction owned by userID as paid and moves its
// booking to processing, in one transaction. Nothing changes on Conflict.
func (r *TransactionRepository) Confirm(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, *models.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, classify(err, "begin transaction", "")
	}
	defer tx.Rollback()

	var txn models.Transaction
	err = tx.GetContext(ctx, &txn,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID)
	if err != nil {
		return nil, nil, classify(err, "get transaction", transactionNotFound)
	}
	if txn.Status != models.TransactionStatusPending {
		return nil, nil, apperror.NewConflict("Transaction is not in pending status")
	}

	booking, err := lockBooking(ctx, tx, txn.BookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, nil, apperror.NewConflict("Booking is no longer payable")
	}

	now := time.Now()
	if err := setTransactionStatus(ctx, tx, &txn, models.TransactionStatusPaid, now); err != nil {
		return nil, nil, err
	}
	if err := applyBookingEffect(ctx, tx, booking, txn.Status, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, classify(err, "commit payment", "")
	}
	return &txn, booking, nil
}

// SetStatus is the admin status update. The booking follows the new status
// as described by TransactionStatus.BookingEffect.
func (r *TransactionRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) (*models.Transaction, *models.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, classify(err, "begin transaction", "")
	}
	defer tx.Rollback()

	var txn models.Transaction
	err = tx.GetContext(ctx, &txn, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, nil, classify(err, "get transaction", transactionNotFound)
	}

	booking, err := lockBooking(ctx, tx, txn.BookingID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := setTransactionStatus(ctx, tx, &txn, status, now); err != nil {
		return nil, nil, err
	}
	if err := applyBookingEffect(ctx, tx, booking, status, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, classify(err, "commit transaction status", "")
	}
	return &txn, booking, nil
}

func lockBooking(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := tx.GetContext(ctx, &booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, classify(err, "get booking", bookingNotFound)
	}
	return &booking, nil
}

func setTransactionStatus(ctx context.Context, tx *sqlx.Tx, txn *models.Transaction, status models.TransactionStatus, now time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE transactions SET status = $2, updated_at = $3 WHERE id = $1`, txn.ID, status, now)
	if err != nil {
		return classify(err, "update transaction status", "")
	}
	txn.Status = status
	txn.UpdatedAt = now
	return nil
}

// applyBookingEffect moves the booking as the transaction status dictates.
// History is written only when the booking status actually changes.
func applyBookingEffect(ctx context.Context, tx *sqlx.Tx, booking *models.Booking, status models.TransactionStatus, now time.Time) error {
	target, note, ok := status.BookingEffect()
	if !ok || booking.Status == target {
		return nil
	}
	if err := setBookingStatus(ctx, tx, booking.ID, target, now); err != nil {
		return err
	}
	if err := appendHistory(ctx, tx, booking.ID, target, note, now); err != nil {
		return err
	}
	booking.Status = target
	booking.UpdatedAt = now
	return nil
}

// PaidInRange returns the paid transactions created in [start, end], oldest first
func (r *TransactionRepository) PaidInRange(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
	txns := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txns, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE status = 'paid' AND created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC`, start, end)
	if err != nil {
		return nil, classify(err, "list paid transactions", "")
	}
	return txns, nil
}

// PaidRevenue sums paid transactions created in [start, end]
func (r *TransactionRepository) PaidRevenue(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE status = 'paid' AND created_at >= $1 AND created_at <= $2`, start, end)
	if err != nil {
		return 0, classify(err, "sum revenue", "")
	}
	return total, nil
}
