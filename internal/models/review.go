package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is the customer rating of a completed booking
type Review struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	BookingID uuid.UUID  `json:"bookingId" db:"booking_id"`
	Rating    int        `json:"rating" db:"rating"`
	Comment   NullString `json:"comment" db:"comment"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// ReviewDetail is a review with its author and booking
type ReviewDetail struct {
	Review
	User    *UserSummary   `json:"user,omitempty"`
	Booking *BookingDetail `json:"booking,omitempty"`
}

// RatingCount is one bucket of the rating distribution
type RatingCount struct {
	Rating int `json:"rating" db:"rating"`
	Count  int `json:"count" db:"count"`
}

// ReviewStats aggregates reviews, optionally for one service
type ReviewStats struct {
	TotalReviews       int           `json:"totalReviews"`
	AverageRating      float64       `json:"averageRating"`
	RatingDistribution []RatingCount `json:"ratingDistribution"`
}

// CreateReviewRequest represents the request to review a booking
type CreateReviewRequest struct {
	BookingID string  `json:"bookingId" validate:"required,uuid"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,trimmed_max=500"`
}

// UpdateReviewRequest represents a partial review update
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,trimmed_max=500"`
}

// ReviewFilter holds the review list filters
type ReviewFilter struct {
	UserID    *uuid.UUID
	Rating    *int
	ServiceID *uuid.UUID
}
