package services

import (
	"context"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TransactionStore is the persistence used by the payment coordinator
type TransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetDetail(ctx context.Context, id, userID uuid.UUID) (*models.TransactionDetail, error)
	List(ctx context.Context, filter models.TransactionFilter, page models.PageRequest, withUser bool) ([]models.TransactionDetail, int, error)
	Confirm(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, *models.Booking, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) (*models.Transaction, *models.Booking, error)
}

// BookingOwnerGetter loads a booking owned by a user
type BookingOwnerGetter interface {
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Booking, error)
}

// TransactionService coordinates payments with the booking lifecycle
type TransactionService struct {
	transactions TransactionStore
	bookings     BookingOwnerGetter
	notifier     Notifier
	logger       *logrus.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactions TransactionStore, bookings BookingOwnerGetter, notifier Notifier, logger *logrus.Logger) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		bookings:     bookings,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreateTransaction records a pending payment for a booking owned by userID
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, req models.CreateTransactionRequest) (*models.Transaction, error) {
	method := models.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, apperror.NewInvalidInput("Invalid payment method")
	}
	if req.Amount <= 0 {
		return nil, apperror.NewInvalidInput("Amount must be positive")
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperror.NewInvalidInput("Invalid booking ID")
	}

	if _, err := s.bookings.GetForUser(ctx, bookingID, userID); err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			return nil, apperror.NewNotFound("Booking not found or not owned by user")
		}
		return nil, err
	}

	txn := &models.Transaction{
		BookingID: bookingID,
		UserID:    userID,
		Amount:    req.Amount,
		Method:    method,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"booking_id":     bookingID,
		"amount":         txn.Amount,
		"method":         txn.Method,
	}).Info("Transaction created")
	return txn, nil
}

// ConfirmPayment marks a pending transaction paid and moves its booking to processing
func (s *TransactionService) ConfirmPayment(ctx context.Context, userID, transactionID uuid.UUID) (*models.Transaction, error) {
	txn, booking, err := s.transactions.Confirm(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"booking_id":     booking.ID,
		"booking_status": booking.Status,
	}).Info("Payment confirmed")

	s.notifier.PaymentConfirmed(ctx, userID, txn)
	return txn, nil
}

// AdminUpdateStatus sets any transaction status; the booking follows
func (s *TransactionService) AdminUpdateStatus(ctx context.Context, transactionID uuid.UUID, statusStr string) (*models.Transaction, error) {
	status, err := models.ParseTransactionStatus(statusStr)
	if err != nil {
		return nil, apperror.NewInvalidInput("Invalid transaction status")
	}

	txn, booking, err := s.transactions.SetStatus(ctx, transactionID, status)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"status":         txn.Status,
		"booking_id":     booking.ID,
		"booking_status": booking.Status,
	}).Info("Transaction status updated by admin")
	return txn, nil
}

// GetTransaction returns a transaction owned by userID with its booking
func (s *TransactionService) GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*models.TransactionDetail, error) {
	return s.transactions.GetDetail(ctx, transactionID, userID)
}

// ListUserTransactions returns the transactions of userID, newest first
func (s *TransactionService) ListUserTransactions(ctx context.Context, userID uuid.UUID, statusStr string, page models.PageRequest) ([]models.TransactionDetail, models.Pagination, error) {
	filter := models.TransactionFilter{UserID: &userID}
	if statusStr != "" {
		status, err := models.ParseTransactionStatus(statusStr)
		if err != nil {
			return nil, models.Pagination{}, apperror.NewInvalidInput("Invalid transaction status")
		}
		filter.Status = &status
	}

	txns, total, err := s.transactions.List(ctx, filter, page, false)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return txns, models.NewPagination(page, total), nil
}

// AdminListTransactions lists transactions of all users with the payer attached
func (s *TransactionService) AdminListTransactions(ctx context.Context, statusStr string, page models.PageRequest) ([]models.TransactionDetail, models.Pagination, error) {
	var filter models.TransactionFilter
	if statusStr != "" {
		status, err := models.ParseTransactionStatus(statusStr)
		if err != nil {
			return nil, models.Pagination{}, apperror.NewInvalidInput("Invalid transaction status")
		}
		filter.Status = &status
	}

	txns, total, err := s.transactions.List(ctx, filter, page, true)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return txns, models.NewPagination(page, total), nil
}
