package services

import (
	"context"
	"strings"
	"time"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/database"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BookingStore is the persistence used by the booking lifecycle
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	Cancel(ctx context.Context, id, userID uuid.UUID, note string) (*models.Booking, *models.Transaction, error)
	OverrideStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus, note string) (*models.Booking, error)
	BookedSlots(ctx context.Context, date time.Time) ([]string, error)
	GetDetail(ctx context.Context, id, userID uuid.UUID, rel database.Relations) (*models.BookingDetail, error)
	List(ctx context.Context, filter models.BookingFilter, page models.PageRequest, rel database.Relations) ([]models.BookingDetail, int, error)
}

// ServiceGetter loads a catalog entry
type ServiceGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

// VehicleGetter loads an owner-scoped vehicle
type VehicleGetter interface {
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Vehicle, error)
}

// UserGetter loads a user
type UserGetter interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// BookingService implements the booking lifecycle
type BookingService struct {
	bookings BookingStore
	services ServiceGetter
	vehicles VehicleGetter
	users    UserGetter
	notifier Notifier
	logger   *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookings BookingStore,
	services ServiceGetter,
	vehicles VehicleGetter,
	users UserGetter,
	notifier Notifier,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		services: services,
		vehicles: vehicles,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateBooking reserves a slot for userID
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req models.CreateBookingRequest) (*models.BookingDetail, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, apperror.NewInvalidInput("Invalid service ID")
	}
	date, err := validator.ParseDate(req.Date)
	if err != nil {
		return nil, apperror.NewInvalidInput("Valid date is required")
	}
	if !models.IsCatalogSlot(req.TimeSlot) {
		return nil, apperror.NewInvalidInput("Invalid time slot")
	}

	service, err := s.services.GetByID(ctx, serviceID)
	if apperror.IsKind(err, apperror.NotFound) || (err == nil && !service.Lifecycle.IsActive()) {
		return nil, apperror.NewNotFound("Service not found or inactive")
	}
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:    userID,
		ServiceID: serviceID,
		Date:      date,
		TimeSlot:  req.TimeSlot,
		Location:  strings.TrimSpace(req.Location),
		Notes:     models.NullStringFromPtr(req.Notes),
	}

	var vehicle *models.Vehicle
	if req.VehicleID != nil && *req.VehicleID != "" {
		vehicleID, err := uuid.Parse(*req.VehicleID)
		if err != nil {
			return nil, apperror.NewInvalidInput("Invalid vehicle ID")
		}
		vehicle, err = s.vehicles.GetForUser(ctx, vehicleID, userID)
		if apperror.IsKind(err, apperror.NotFound) || (err == nil && !vehicle.Lifecycle.IsActive()) {
			return nil, apperror.NewNotFound("Vehicle not found or not owned by user")
		}
		if err != nil {
			return nil, err
		}
		booking.VehicleID = uuid.NullUUID{UUID: vehicleID, Valid: true}
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	detail := &models.BookingDetail{Booking: *booking, Service: service, Vehicle: vehicle}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to load user for booking summary")
	} else {
		detail.User = user.Summary()
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    userID,
		"date":       booking.Date.Format("2006-01-02"),
		"time_slot":  booking.TimeSlot,
	}).Info("Booking created")

	s.notifier.BookingCreated(ctx, userID, detail)
	return detail, nil
}

// ListAvailableSlots partitions the slot catalog of a day into available and booked
func (s *BookingService) ListAvailableSlots(ctx context.Context, dateStr string) (*models.AvailableSlots, error) {
	date, err := validator.ParseDate(dateStr)
	if err != nil {
		return nil, apperror.NewInvalidInput("Valid date is required")
	}

	booked, err := s.bookings.BookedSlots(ctx, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	result := &models.AvailableSlots{
		Date:           date.Format("2006-01-02"),
		AvailableSlots: []string{},
		BookedSlots:    []string{},
	}
	for _, slot := range models.TimeSlots {
		if taken[slot] {
			result.BookedSlots = append(result.BookedSlots, slot)
		} else {
			result.AvailableSlots = append(result.AvailableSlots, slot)
		}
	}
	return result, nil
}

// CancelBooking cancels a booking owned by userID, refunding a paid transaction
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID, reason *string) (*models.Booking, error) {
	note := models.HistoryNoteCancelledByUser
	if reason != nil && strings.TrimSpace(*reason) != "" {
		note = strings.TrimSpace(*reason)
	}

	booking, refunded, err := s.bookings.Cancel(ctx, bookingID, userID, note)
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{"booking_id": bookingID, "user_id": userID}
	if refunded != nil {
		fields["refunded_transaction_id"] = refunded.ID
	}
	s.logger.WithFields(fields).Info("Booking cancelled")

	s.notifier.BookingCancelled(ctx, userID, booking)
	return booking, nil
}

// AdminUpdateStatus overwrites the status of any booking
func (s *BookingService) AdminUpdateStatus(ctx context.Context, bookingID uuid.UUID, statusStr string) (*models.Booking, error) {
	status, err := models.ParseBookingStatus(statusStr)
	if err != nil {
		return nil, apperror.NewInvalidInput("Invalid status value")
	}

	booking, err := s.bookings.OverrideStatus(ctx, bookingID, status, models.HistoryNoteAdminUpdate)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"status":     status,
	}).Info("Booking status overridden by admin")
	return booking, nil
}

// GetBookingDetail returns a booking owned by userID with every relation
func (s *BookingService) GetBookingDetail(ctx context.Context, userID, bookingID uuid.UUID) (*models.BookingDetail, error) {
	return s.bookings.GetDetail(ctx, bookingID, userID, database.WithAll)
}

// ListUserBookings returns the bookings of userID, newest first
func (s *BookingService) ListUserBookings(ctx context.Context, userID uuid.UUID, statusStr string, page models.PageRequest) ([]models.BookingDetail, models.Pagination, error) {
	filter := models.BookingFilter{UserID: &userID}
	if statusStr != "" {
		status, err := models.ParseBookingStatus(statusStr)
		if err != nil {
			return nil, models.Pagination{}, apperror.NewInvalidInput("Invalid status value")
		}
		filter.Status = &status
	}

	rel := database.WithService | database.WithVehicle | database.WithTransaction | database.WithReview
	bookings, total, err := s.bookings.List(ctx, filter, page, rel)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return bookings, models.NewPagination(page, total), nil
}

// AdminListBookings lists bookings of all users. The created-at range applies
// only when both bounds are given; the end day is inclusive.
func (s *BookingService) AdminListBookings(ctx context.Context, statusStr, startStr, endStr string, page models.PageRequest) ([]models.BookingDetail, models.Pagination, error) {
	var filter models.BookingFilter
	if statusStr != "" {
		status, err := models.ParseBookingStatus(statusStr)
		if err != nil {
			return nil, models.Pagination{}, apperror.NewInvalidInput("Invalid status value")
		}
		filter.Status = &status
	}
	if startStr != "" && endStr != "" {
		start, end, err := parseRange(startStr, endStr)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		filter.StartDate, filter.EndDate = &start, &end
	}

	rel := database.WithService | database.WithUser | database.WithTransaction
	bookings, total, err := s.bookings.List(ctx, filter, page, rel)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return bookings, models.NewPagination(page, total), nil
}

// parseRange parses a date range whose end day is inclusive
func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := validator.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewInvalidInput("Invalid start date")
	}
	end, err := validator.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewInvalidInput("Invalid end date")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperror.NewInvalidInput("End date must not be before start date")
	}
	return start, end.Add(24*time.Hour - time.Nanosecond), nil
}
