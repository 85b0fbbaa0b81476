package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionStatus represents the payment status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusPaid     TransactionStatus = "paid"
	TransactionStatusFailed   TransactionStatus = "failed"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

// IsValid returns true if the status is a recognized transaction status
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusPaid, TransactionStatusFailed, TransactionStatusRefunded:
		return true
	}
	return false
}

// ParseTransactionStatus converts a string to a TransactionStatus
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	status := TransactionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid transaction status: %s", s)
	}
	return status, nil
}

// BookingEffect returns the booking status driven by this transaction status
// and the history note to record. ok is false when the booking is left alone.
func (s TransactionStatus) BookingEffect() (status BookingStatus, note string, ok bool) {
	switch s {
	case TransactionStatusPaid:
		return BookingStatusProcessing, HistoryNotePaymentConfirmed, true
	case TransactionStatusFailed:
		return BookingStatusCancelled, HistoryNotePaymentFailed, true
	case TransactionStatusRefunded:
		return BookingStatusCancelled, HistoryNotePaymentRefunded, true
	}
	return "", "", false
}

// PaymentMethod represents how a transaction is paid
type PaymentMethod string

const (
	PaymentMethodEwallet  PaymentMethod = "ewallet"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCash     PaymentMethod = "cash"
)

// IsValid returns true if the method is a recognized payment method
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodEwallet || m == PaymentMethodTransfer || m == PaymentMethodCash
}

// Transaction is the payment record of a booking (at most one per booking)
type Transaction struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	BookingID uuid.UUID         `json:"bookingId" db:"booking_id"`
	UserID    uuid.UUID         `json:"userId" db:"user_id"`
	Amount    int64             `json:"amount" db:"amount"`
	Method    PaymentMethod     `json:"method" db:"method"`
	Status    TransactionStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
}

// TransactionDetail is a transaction with its booking and payer
type TransactionDetail struct {
	Transaction
	Booking *Booking     `json:"booking,omitempty"`
	User    *UserSummary `json:"user,omitempty"`
}

// CreateTransactionRequest represents the request to create a transaction
type CreateTransactionRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Method    string `json:"method" validate:"required,oneof=ewallet transfer cash"`
}

// UpdateTransactionStatusRequest is the admin status update
type UpdateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TransactionFilter holds the transaction list filters
type TransactionFilter struct {
	UserID *uuid.UUID
	Status *TransactionStatus
}
