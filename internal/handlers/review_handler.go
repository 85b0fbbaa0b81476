package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/middleware"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReviewAPI is the review surface used by ReviewHandler
type ReviewAPI interface {
	CreateReview(ctx context.Context, userID uuid.UUID, req models.CreateReviewRequest) (*models.Review, error)
	ListUserReviews(ctx context.Context, userID uuid.UUID, page models.PageRequest) ([]models.ReviewDetail, models.Pagination, error)
	ListReviews(ctx context.Context, rating *int, serviceID *uuid.UUID, page models.PageRequest) ([]models.ReviewDetail, models.Pagination, error)
	GetReviewByBooking(ctx context.Context, userID, bookingID uuid.UUID) (*models.ReviewDetail, error)
	UpdateReview(ctx context.Context, userID, id uuid.UUID, req models.UpdateReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, userID, id uuid.UUID) error
	ReviewStats(ctx context.Context, serviceID *uuid.UUID) (*models.ReviewStats, error)
}

// ReviewHandler handles booking reviews
type ReviewHandler struct {
	reviews   ReviewAPI
	validator *validator.StructValidator
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews ReviewAPI, v *validator.StructValidator) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, validator: v}
}

// optionalServiceID reads the serviceId query parameter
func optionalServiceID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("serviceId")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, apperror.NewInvalidInput("Invalid ID format"))
		return nil, false
	}
	return &id, true
}

// ListAllReviews is the public review feed
// GET /api/reviews/all?rating=&serviceId=&page=&limit=
func (h *ReviewHandler) ListAllReviews(c *gin.Context) {
	serviceID, ok := optionalServiceID(c)
	if !ok {
		return
	}

	var rating *int
	if raw := c.Query("rating"); raw != "" {
		r, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperror.NewInvalidInput("Rating must be between 1 and 5"))
			return
		}
		rating = &r
	}

	reviews, pagination, err := h.reviews.ListReviews(c.Request.Context(), rating, serviceID, pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "reviews", reviews, pagination)
}

// GetStats GET /api/reviews/stats?serviceId=
func (h *ReviewHandler) GetStats(c *gin.Context) {
	serviceID, ok := optionalServiceID(c)
	if !ok {
		return
	}

	stats, err := h.reviews.ReviewStats(c.Request.Context(), serviceID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", stats)
}

// CreateReview reviews a completed booking
// POST /api/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateReviewRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), userCtx.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Review created successfully", review)
}

// ListMyReviews GET /api/reviews
func (h *ReviewHandler) ListMyReviews(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	reviews, pagination, err := h.reviews.ListUserReviews(c.Request.Context(), userCtx.UserID, pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "reviews", reviews, pagination)
}

// GetByBooking GET /api/reviews/booking/:bookingId
func (h *ReviewHandler) GetByBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	bookingID, ok := paramID(c, "bookingId")
	if !ok {
		return
	}

	review, err := h.reviews.GetReviewByBooking(c.Request.Context(), userCtx.UserID, bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", review)
}

// UpdateReview PUT /api/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReviewRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), userCtx.UserID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Review updated successfully", review)
}

// DeleteReview DELETE /api/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.DeleteReview(c.Request.Context(), userCtx.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Review deleted successfully", nil)
}
