package services

import (
	"context"
	"strings"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReviewStore is the persistence of reviews
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	GetByBooking(ctx context.Context, bookingID, userID uuid.UUID) (*models.ReviewDetail, error)
	List(ctx context.Context, filter models.ReviewFilter, page models.PageRequest) ([]models.ReviewDetail, int, error)
	Update(ctx context.Context, id, userID uuid.UUID, req models.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Stats(ctx context.Context, serviceID *uuid.UUID) (*models.ReviewStats, error)
}

// ReviewService handles reviews of completed bookings
type ReviewService struct {
	reviews  ReviewStore
	bookings BookingOwnerGetter
	logger   *logrus.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews ReviewStore, bookings BookingOwnerGetter, logger *logrus.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, logger: logger}
}

// CreateReview reviews a done booking owned by userID, at most once
func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req models.CreateReviewRequest) (*models.Review, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperror.NewInvalidInput("Invalid booking ID")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperror.NewInvalidInput("Rating must be between 1 and 5")
	}

	booking, err := s.bookings.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusDone {
		return nil, apperror.NewConflict("Can only review completed bookings")
	}

	exists, err := s.reviews.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflict("Review already exists for this booking")
	}

	review := &models.Review{UserID: userID, BookingID: bookingID, Rating: req.Rating}
	if req.Comment != nil {
		review.Comment = models.NewNullString(strings.TrimSpace(*req.Comment))
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"review_id": review.ID, "booking_id": bookingID, "rating": review.Rating}).Info("Review created")
	return review, nil
}

// ListUserReviews returns the reviews written by userID
func (s *ReviewService) ListUserReviews(ctx context.Context, userID uuid.UUID, page models.PageRequest) ([]models.ReviewDetail, models.Pagination, error) {
	return s.list(ctx, models.ReviewFilter{UserID: &userID}, page)
}

// ListReviews is the public review list, filterable by rating and service
func (s *ReviewService) ListReviews(ctx context.Context, rating *int, serviceID *uuid.UUID, page models.PageRequest) ([]models.ReviewDetail, models.Pagination, error) {
	return s.list(ctx, models.ReviewFilter{Rating: rating, ServiceID: serviceID}, page)
}

func (s *ReviewService) list(ctx context.Context, filter models.ReviewFilter, page models.PageRequest) ([]models.ReviewDetail, models.Pagination, error) {
	reviews, total, err := s.reviews.List(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return reviews, models.NewPagination(page, total), nil
}

// UpdateReview changes rating and/or comment of a review owned by userID
func (s *ReviewService) UpdateReview(ctx context.Context, userID, id uuid.UUID, req models.UpdateReviewRequest) (*models.Review, error) {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, apperror.NewInvalidInput("Rating must be between 1 and 5")
	}
	return s.reviews.Update(ctx, id, userID, req)
}

// DeleteReview removes a review owned by userID
func (s *ReviewService) DeleteReview(ctx context.Context, userID, id uuid.UUID) error {
	return s.reviews.Delete(ctx, id, userID)
}

// ReviewStats aggregates reviews, optionally for one service
func (s *ReviewService) ReviewStats(ctx context.Context, serviceID *uuid.UUID) (*models.ReviewStats, error) {
	return s.reviews.Stats(ctx, serviceID)
}

// GetReviewByBooking returns the review of a booking owned by userID
func (s *ReviewService) GetReviewByBooking(ctx context.Context, userID, bookingID uuid.UUID) (*models.ReviewDetail, error) {
	if _, err := s.bookings.GetForUser(ctx, bookingID, userID); err != nil {
		return nil, err
	}
	return s.reviews.GetByBooking(ctx, bookingID, userID)
}
