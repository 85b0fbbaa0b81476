package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is an entry of the car-wash service catalog
type Service struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       int64     `json:"price" db:"price"`       // smallest currency unit
	Duration    int       `json:"duration" db:"duration"` // minutes
	Lifecycle   Lifecycle `json:"lifecycle" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ServiceStats aggregates completed bookings of a service
type ServiceStats struct {
	TotalBookings int     `json:"totalBookings" db:"total_bookings"`
	AverageRating float64 `json:"averageRating" db:"average_rating"`
	TotalReviews  int     `json:"totalReviews" db:"total_reviews"`
}

// ServiceDetail is a service with its stats
type ServiceDetail struct {
	Service
	ServiceStats
}

// CreateServiceRequest represents the request to add a catalog entry
type CreateServiceRequest struct {
	Name        string `json:"name" validate:"required,trimmed_min=2"`
	Description string `json:"description" validate:"required"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Duration    int    `json:"duration" validate:"required,gt=0"`
}

// UpdateServiceRequest represents a partial catalog update
type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,trimmed_min=2"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Duration    *int    `json:"duration,omitempty" validate:"omitempty,gt=0"`
	IsActive    *bool   `json:"isActive,omitempty"`
}
