package models

import (
	"time"

	"github.com/google/uuid"
)

// VehicleType represents the kind of vehicle
type VehicleType string

const (
	VehicleTypeCar        VehicleType = "car"
	VehicleTypeMotorcycle VehicleType = "motorcycle"
)

// Vehicle is a customer vehicle. Plate numbers are unique across all users.
type Vehicle struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	UserID      uuid.UUID   `json:"userId" db:"user_id"`
	Brand       string      `json:"brand" db:"brand"`
	Model       string      `json:"model" db:"model"`
	Year        int         `json:"year" db:"year"`
	Color       string      `json:"color" db:"color"`
	PlateNumber string      `json:"plateNumber" db:"plate_number"`
	VehicleType VehicleType `json:"vehicleType" db:"vehicle_type"`
	Lifecycle   Lifecycle   `json:"lifecycle" db:"is_active"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// VehicleDetail is a vehicle with its latest bookings
type VehicleDetail struct {
	Vehicle
	RecentBookings []BookingDetail `json:"bookings"`
}

// VehicleStats aggregates the bookings of a vehicle
type VehicleStats struct {
	TotalBookings     int      `json:"totalBookings" db:"total_bookings"`
	CompletedBookings int      `json:"completedBookings" db:"completed_bookings"`
	TotalSpent        int64    `json:"totalSpent" db:"total_spent"`
	Vehicle           *Vehicle `json:"vehicle" db:"-"`
}

// CreateVehicleRequest represents the request to register a vehicle
type CreateVehicleRequest struct {
	Brand       string `json:"brand" validate:"required,trimmed_min=2"`
	Model       string `json:"model" validate:"required,trimmed_min=2"`
	Year        int    `json:"year" validate:"required,vehicle_year"`
	Color       string `json:"color" validate:"required,trimmed_min=2"`
	PlateNumber string `json:"plateNumber" validate:"required,plate_number"`
	VehicleType string `json:"vehicleType" validate:"required,oneof=car motorcycle"`
}

// UpdateVehicleRequest represents a partial vehicle update
type UpdateVehicleRequest struct {
	Brand       *string `json:"brand,omitempty" validate:"omitempty,trimmed_min=2"`
	Model       *string `json:"model,omitempty" validate:"omitempty,trimmed_min=2"`
	Year        *int    `json:"year,omitempty" validate:"omitempty,vehicle_year"`
	Color       *string `json:"color,omitempty" validate:"omitempty,trimmed_min=2"`
	PlateNumber *string `json:"plateNumber,omitempty" validate:"omitempty,plate_number"`
	VehicleType *string `json:"vehicleType,omitempty" validate:"omitempty,oneof=car motorcycle"`
}
