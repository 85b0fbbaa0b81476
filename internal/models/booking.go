package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the current state of a booking in its lifecycle
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusProcessing BookingStatus = "processing"
	BookingStatusDone       BookingStatus = "done"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// validBookingTransitions is the user-facing state machine.
// Admin overrides do not consult it.
var validBookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusProcessing, BookingStatusCancelled},
	BookingStatusProcessing: {BookingStatusDone, BookingStatusCancelled},
	BookingStatusDone:       {},
	BookingStatusCancelled:  {},
}

// IsValid returns true if the status is a recognized booking status
func (s BookingStatus) IsValid() bool {
	_, exists := validBookingTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validBookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validBookingTransitions[s]
	return !exists || len(allowed) == 0
}

// OccupiesSlot reports whether a booking in this status blocks its time slot
func (s BookingStatus) OccupiesSlot() bool {
	return s == BookingStatusPending || s == BookingStatusProcessing
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// TimeSlots is the fixed daily slot catalog. There is no 12:00-13:00 slot.
var TimeSlots = []string{
	"08:00-09:00", "09:00-10:00", "10:00-11:00", "11:00-12:00",
	"13:00-14:00", "14:00-15:00", "15:00-16:00", "16:00-17:00",
}

// IsCatalogSlot reports whether slot belongs to the daily catalog
func IsCatalogSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// History notes appended by the lifecycle engine
const (
	HistoryNoteCreated          = "Booking created"
	HistoryNoteCancelledByUser  = "Cancelled by user"
	HistoryNoteAdminUpdate      = "Status updated by admin"
	HistoryNotePaymentConfirmed = "Payment confirmed"
	HistoryNotePaymentFailed    = "Payment failed"
	HistoryNotePaymentRefunded  = "Payment refunded"
)

// Booking is a reservation of one time slot on one day
type Booking struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	UserID    uuid.UUID     `json:"userId" db:"user_id"`
	ServiceID uuid.UUID     `json:"serviceId" db:"service_id"`
	VehicleID uuid.NullUUID `json:"vehicleId" db:"vehicle_id"`
	Date      time.Time     `json:"date" db:"booking_date"`
	TimeSlot  string        `json:"timeSlot" db:"time_slot"`
	Location  string        `json:"location" db:"location"`
	Notes     NullString    `json:"notes" db:"notes"`
	Status    BookingStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// BookingStatusHistory is one row of the append-only audit trail
type BookingStatusHistory struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	BookingID uuid.UUID     `json:"bookingId" db:"booking_id"`
	Status    BookingStatus `json:"status" db:"status"`
	Notes     NullString    `json:"notes" db:"notes"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

// BookingDetail is a booking with its related records. Absent relations are omitted.
type BookingDetail struct {
	Booking
	Service       *Service               `json:"service,omitempty"`
	Vehicle       *Vehicle               `json:"vehicle,omitempty"`
	User          *UserSummary           `json:"user,omitempty"`
	Transaction   *Transaction           `json:"transaction,omitempty"`
	Review        *Review                `json:"review,omitempty"`
	StatusHistory []BookingStatusHistory `json:"statusHistory,omitempty"`
}

// AvailableSlots is the slot availability of one day
type AvailableSlots struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	ServiceID string  `json:"serviceId" validate:"required,uuid"`
	VehicleID *string `json:"vehicleId,omitempty" validate:"omitempty,uuid"`
	Date      string  `json:"date" validate:"required,booking_date,not_past"`
	TimeSlot  string  `json:"timeSlot" validate:"required,time_slot"`
	Location  string  `json:"location" validate:"required,trimmed_min=5"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CancelBookingRequest represents the request to cancel a booking
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// UpdateBookingStatusRequest is the admin status override
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// BookingFilter holds the booking list filters
type BookingFilter struct {
	UserID    *uuid.UUID
	VehicleID *uuid.UUID
	Status    *BookingStatus
	StartDate *time.Time
	EndDate   *time.Time
}
