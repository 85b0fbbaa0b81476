package handlers

import (
	"context"
	"net/http"

	"github.com/carwash/carwash-backend/internal/middleware"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionAPI is the payment surface used by TransactionHandler and AdminHandler
type TransactionAPI interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, req models.CreateTransactionRequest) (*models.Transaction, error)
	ListUserTransactions(ctx context.Context, userID uuid.UUID, statusStr string, page models.PageRequest) ([]models.TransactionDetail, models.Pagination, error)
	GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*models.TransactionDetail, error)
	ConfirmPayment(ctx context.Context, userID, transactionID uuid.UUID) (*models.Transaction, error)
	AdminUpdateStatus(ctx context.Context, transactionID uuid.UUID, statusStr string) (*models.Transaction, error)
	AdminListTransactions(ctx context.Context, statusStr string, page models.PageRequest) ([]models.TransactionDetail, models.Pagination, error)
}

// TransactionHandler handles booking payments
type TransactionHandler struct {
	transactions TransactionAPI
	validator    *validator.StructValidator
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactions TransactionAPI, v *validator.StructValidator) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, validator: v}
}

// CreateTransaction opens the payment record of a booking
// POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateTransactionRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	txn, err := h.transactions.CreateTransaction(c.Request.Context(), userCtx.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Transaction created successfully", txn)
}

// ListTransactions GET /api/transactions?status=&page=&limit=
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	txns, pagination, err := h.transactions.ListUserTransactions(c.Request.Context(), userCtx.UserID, c.Query("status"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "transactions", txns, pagination)
}

// GetTransaction GET /api/transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	txn, err := h.transactions.GetTransaction(c.Request.Context(), userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", txn)
}

// ConfirmPayment marks a pending transaction paid and confirms its booking
// PATCH /api/transactions/:id/confirm
func (h *TransactionHandler) ConfirmPayment(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	txn, err := h.transactions.ConfirmPayment(c.Request.Context(), userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Payment confirmed successfully", txn)
}

// UpdateStatus is the admin status override
// PATCH /api/transactions/:id/status
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTransactionStatusRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	txn, err := h.transactions.AdminUpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Transaction status updated successfully", txn)
}
