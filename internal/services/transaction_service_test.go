package services

import (
	"context"
	"testing"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transactionFixture struct {
	*bookingFixture
	txns *TransactionService
}

func setupTransactionTest(t *testing.T) (*transactionFixture, *models.BookingDetail) {
	f := setupBookingTest()
	txns := NewTransactionService(fakeTransactions{f.db}, fakeBookings{f.db}, f.notifier, testLogger())

	booking, err := f.service.CreateBooking(context.Background(), f.user.ID, f.request("2025-03-02", "09:00-10:00"))
	require.NoError(t, err)
	return &transactionFixture{bookingFixture: f, txns: txns}, booking
}

func (f *transactionFixture) pay(bookingID uuid.UUID) models.CreateTransactionRequest {
	return models.CreateTransactionRequest{BookingID: bookingID.String(), Amount: 50000, Method: "ewallet"}
}

func TestCreateTransaction(t *testing.T) {
	f, booking := setupTransactionTest(t)
	ctx := context.Background()

	txn, err := f.txns.CreateTransaction(ctx, f.user.ID, f.pay(booking.ID))
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, models.PaymentMethodEwallet, txn.Method)

	_, err = f.txns.CreateTransaction(ctx, f.user.ID, f.pay(booking.ID))
	assert.True(t, apperror.IsKind(err, apperror.Conflict))
}

func TestCreateTransaction_Validation(t *testing.T) {
	f, booking := setupTransactionTest(t)

	tests := []struct {
		name    string
		userID  uuid.UUID
		mutate  func(*models.CreateTransactionRequest)
		kind    apperror.Kind
		message string
	}{
		{"bad method", f.user.ID, func(r *models.CreateTransactionRequest) { r.Method = "crypto" }, apperror.InvalidInput, "Invalid payment method"},
		{"zero amount", f.user.ID, func(r *models.CreateTransactionRequest) { r.Amount = 0 }, apperror.InvalidInput, "Amount must be positive"},
		{"foreign booking", uuid.New(), func(*models.CreateTransactionRequest) {}, apperror.NotFound, "Booking not found or not owned by user"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := f.pay(booking.ID)
			tc.mutate(&req)

			_, err := f.txns.CreateTransaction(context.Background(), tc.userID, req)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperror.KindOf(err))
			assert.Equal(t, tc.message, err.Error())
		})
	}
}

func TestConfirmPayment(t *testing.T) {
	f, booking := setupTransactionTest(t)
	ctx := context.Background()
	txn, err := f.txns.CreateTransaction(ctx, f.user.ID, f.pay(booking.ID))
	require.NoError(t, err)

	confirmed, err := f.txns.ConfirmPayment(ctx, f.user.ID, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPaid, confirmed.Status)
	assert.Equal(t, models.BookingStatusProcessing, f.db.bookings[booking.ID].Status)

	history := f.db.history[booking.ID]
	assert.Equal(t, models.HistoryNotePaymentConfirmed, history[len(history)-1].Notes.String)
	assert.Equal(t, []string{"created", "paid"}, f.notifier.events)

	_, err = f.txns.ConfirmPayment(ctx, f.user.ID, txn.ID)
	require.Error(t, err)
	assert.Equal(t, "Transaction is not in pending status", err.Error())
}

func TestConfirmPayment_CancelledBooking(t *testing.T) {
	f, booking := setupTransactionTest(t)
	ctx := context.Background()
	txn, err := f.txns.CreateTransaction(ctx, f.user.ID, f.pay(booking.ID))
	require.NoError(t, err)
	_, err = f.service.CancelBooking(ctx, f.user.ID, booking.ID, nil)
	require.NoError(t, err)

	_, err = f.txns.ConfirmPayment(ctx, f.user.ID, txn.ID)
	assert.True(t, apperror.IsKind(err, apperror.Conflict))
	assert.Equal(t, models.TransactionStatusPending, f.db.transactions[txn.ID].Status)
}

func TestTransactionAdminUpdateStatus(t *testing.T) {
	tests := []struct {
		status      string
		wantBooking models.BookingStatus
	}{
		{"paid", models.BookingStatusProcessing},
		{"failed", models.BookingStatusCancelled},
		{"refunded", models.BookingStatusCancelled},
		{"pending", models.BookingStatusPending},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			f, booking := setupTransactionTest(t)
			ctx := context.Background()
			txn, err := f.txns.CreateTransaction(ctx, f.user.ID, f.pay(booking.ID))
			require.NoError(t, err)

			updated, err := f.txns.AdminUpdateStatus(ctx, txn.ID, tc.status)
			require.NoError(t, err)
			assert.Equal(t, models.TransactionStatus(tc.status), updated.Status)
			assert.Equal(t, tc.wantBooking, f.db.bookings[booking.ID].Status)
		})
	}
}

func TestTransactionAdminUpdateStatus_Invalid(t *testing.T) {
	f, booking := setupTransactionTest(t)
	ctx := context.Background()
	txn, err := f.txns.CreateTransaction(ctx, f.user.ID, f.pay(booking.ID))
	require.NoError(t, err)

	_, err = f.txns.AdminUpdateStatus(ctx, txn.ID, "settled")
	require.Error(t, err)
	assert.Equal(t, "Invalid transaction status", err.Error())
}

func TestListUserTransactions(t *testing.T) {
	f, booking := setupTransactionTest(t)
	ctx := context.Background()
	_, err := f.txns.CreateTransaction(ctx, f.user.ID, f.pay(booking.ID))
	require.NoError(t, err)

	txns, pagination, err := f.txns.ListUserTransactions(ctx, f.user.ID, "pending", models.PageRequest{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, txns, 1)
	assert.Equal(t, 5, pagination.Limit)

	txns, _, err = f.txns.ListUserTransactions(ctx, f.user.ID, "paid", models.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, txns)

	_, _, err = f.txns.AdminListTransactions(ctx, "nope", models.PageRequest{})
	assert.True(t, apperror.IsKind(err, apperror.InvalidInput))
}
