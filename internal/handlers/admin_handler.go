package handlers

import (
	"context"
	"net/http"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

// ReportAPI is the reporting surface used by AdminHandler
type ReportAPI interface {
	DashboardStats(ctx context.Context, periodStr string) (*models.DashboardStats, error)
	FinancialReport(ctx context.Context, startStr, endStr, groupByStr string) (*models.FinancialReport, error)
}

// UserDirectory lists accounts for admins
type UserDirectory interface {
	AdminListUsers(ctx context.Context, roleStr string, page models.PageRequest) ([]models.User, models.Pagination, error)
}

// AdminHandler handles admin-related HTTP requests
type AdminHandler struct {
	reports      ReportAPI
	bookings     BookingAPI
	transactions TransactionAPI
	users        UserDirectory
	validator    *validator.StructValidator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	reports ReportAPI,
	bookings BookingAPI,
	transactions TransactionAPI,
	users UserDirectory,
	v *validator.StructValidator,
) *AdminHandler {
	return &AdminHandler{
		reports:      reports,
		bookings:     bookings,
		transactions: transactions,
		users:        users,
		validator:    v,
	}
}

// GetDashboard handles GET /api/admin/dashboard?period=today|week|month|year
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.reports.DashboardStats(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", stats)
}

// ListBookings handles GET /api/admin/bookings?status=&startDate=&endDate=&page=&limit=
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, pagination, err := h.bookings.AdminListBookings(
		c.Request.Context(),
		c.Query("status"),
		c.Query("startDate"),
		c.Query("endDate"),
		pageQuery(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "bookings", bookings, pagination)
}

// UpdateBookingStatus handles PATCH /api/admin/bookings/:id/status
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateBookingStatusRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	booking, err := h.bookings.AdminUpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Booking status updated successfully", booking)
}

// GetFinancialReport handles GET /api/admin/financial-report?startDate=&endDate=&groupBy=day|week|month
func (h *AdminHandler) GetFinancialReport(c *gin.Context) {
	report, err := h.reports.FinancialReport(
		c.Request.Context(),
		c.Query("startDate"),
		c.Query("endDate"),
		c.Query("groupBy"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", report)
}

// ListUsers handles GET /api/admin/users?role=&page=&limit=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, pagination, err := h.users.AdminListUsers(c.Request.Context(), c.Query("role"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "users", users, pagination)
}

// ListTransactions handles GET /api/admin/transactions?status=&page=&limit=
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	txns, pagination, err := h.transactions.AdminListTransactions(c.Request.Context(), c.Query("status"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "transactions", txns, pagination)
}
