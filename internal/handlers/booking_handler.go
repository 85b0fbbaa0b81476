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

// BookingAPI is the booking surface used by BookingHandler and AdminHandler
type BookingAPI interface {
	ListAvailableSlots(ctx context.Context, dateStr string) (*models.AvailableSlots, error)
	CreateBooking(ctx context.Context, userID uuid.UUID, req models.CreateBookingRequest) (*models.BookingDetail, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, statusStr string, page models.PageRequest) ([]models.BookingDetail, models.Pagination, error)
	GetBookingDetail(ctx context.Context, userID, bookingID uuid.UUID) (*models.BookingDetail, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID, reason *string) (*models.Booking, error)
	AdminListBookings(ctx context.Context, statusStr, startStr, endStr string, page models.PageRequest) ([]models.BookingDetail, models.Pagination, error)
	AdminUpdateStatus(ctx context.Context, bookingID uuid.UUID, statusStr string) (*models.Booking, error)
}

// BookingHandler handles customer booking endpoints
type BookingHandler struct {
	bookings  BookingAPI
	validator *validator.StructValidator
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings BookingAPI, v *validator.StructValidator) *BookingHandler {
	return &BookingHandler{bookings: bookings, validator: v}
}

// GetAvailableSlots lists the free slots of a day
// GET /api/bookings/available-slots?date=YYYY-MM-DD
func (h *BookingHandler) GetAvailableSlots(c *gin.Context) {
	slots, err := h.bookings.ListAvailableSlots(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", slots)
}

// CreateBooking reserves a slot
// POST /api/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateBookingRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), userCtx.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Booking created successfully", booking)
}

// ListBookings returns the caller's bookings, newest first
// GET /api/bookings?status=&page=&limit=
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookings, pagination, err := h.bookings.ListUserBookings(c.Request.Context(), userCtx.UserID, c.Query("status"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "bookings", bookings, pagination)
}

// GetBooking returns one of the caller's bookings
// GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.GetBookingDetail(c.Request.Context(), userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", booking)
}

// CancelBooking cancels a pending or confirmed booking
// PATCH /api/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// The body is optional; chunked bodies report a length of -1
	var req models.CancelBookingRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, h.validator, &req) {
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), userCtx.UserID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Booking cancelled successfully", booking)
}
