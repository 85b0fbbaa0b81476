package database

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const reviewNotFound = "Review not found"

// ReviewRepository handles booking reviews
type ReviewRepository struct {
	db        *sqlx.DB
	relations relationLoader
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db, relations: relationLoader{db: db}}
}

// Create inserts a review. reviews_booking_id_key rejects a second review of the same booking.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	now := time.Now()
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		review.ID, review.UserID, review.BookingID, review.Rating, review.Comment, review.CreatedAt, review.UpdatedAt,
	)
	return classify(err, "create review", "")
}

// ExistsForBooking reports whether the booking already has a review
func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID)
	if err != nil {
		return false, classify(err, "check review", "")
	}
	return exists, nil
}

// GetByBooking retrieves the review of a booking owned by userID
func (r *ReviewRepository) GetByBooking(ctx context.Context, bookingID, userID uuid.UUID) (*models.ReviewDetail, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review,
		`SELECT `+reviewColumns+` FROM reviews WHERE booking_id = $1 AND user_id = $2`, bookingID, userID)
	if err != nil {
		return nil, classify(err, "get review", "Review not found for this booking")
	}
	details := []models.ReviewDetail{{Review: review}}
	if err := r.attach(ctx, details, WithService|WithVehicle); err != nil {
		return nil, err
	}
	return &details[0], nil
}

// List returns one page of reviews, newest first, with author and booking attached
func (r *ReviewRepository) List(ctx context.Context, filter models.ReviewFilter, page models.PageRequest) ([]models.ReviewDetail, int, error) {
	var where whereClause
	if filter.UserID != nil {
		where.add("rv.user_id = $%d", *filter.UserID)
	}
	if filter.Rating != nil {
		where.add("rv.rating = $%d", *filter.Rating)
	}
	if filter.ServiceID != nil {
		where.add("b.service_id = $%d", *filter.ServiceID)
	}
	from := ` FROM reviews rv JOIN bookings b ON b.id = rv.booking_id` + where.String()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+from, where.args...); err != nil {
		return nil, 0, classify(err, "count reviews", "")
	}

	limit, args := where.page(page)
	reviews := []models.Review{}
	query := `SELECT ` + prefixColumns("rv", reviewColumns) + from + ` ORDER BY rv.created_at DESC` + limit
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, 0, classify(err, "list reviews", "")
	}

	details := make([]models.ReviewDetail, len(reviews))
	for i, rv := range reviews {
		details[i] = models.ReviewDetail{Review: rv}
	}
	if err := r.attach(ctx, details, WithService|WithVehicle); err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// attach loads the author summary and the reviewed booking with rel relations
func (r *ReviewRepository) attach(ctx context.Context, details []models.ReviewDetail, rel Relations) error {
	if len(details) == 0 {
		return nil
	}
	bookingIDs := make([]uuid.UUID, len(details))
	userIDs := make([]uuid.UUID, len(details))
	for i, d := range details {
		bookingIDs[i] = d.BookingID
		userIDs[i] = d.UserID
	}

	users, err := r.relations.userSummaries(ctx, userIDs)
	if err != nil {
		return err
	}

	var bookings []models.Booking
	if err := r.relations.selectIn(ctx, &bookings, `SELECT `+bookingColumns+` FROM bookings WHERE id IN (?)`, unique(bookingIDs)); err != nil {
		return classify(err, "load review bookings", "")
	}
	bookingDetails := toDetails(bookings)
	if err := r.relations.attach(ctx, bookingDetails, rel); err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*models.BookingDetail, len(bookingDetails))
	for i := range bookingDetails {
		byID[bookingDetails[i].ID] = &bookingDetails[i]
	}

	for i := range details {
		details[i].User = users[details[i].UserID]
		details[i].Booking = byID[details[i].BookingID]
	}
	return nil
}

// Update applies rating/comment to a review owned by userID.
// An empty comment clears it.
func (r *ReviewRepository) Update(ctx context.Context, id, userID uuid.UUID, req models.UpdateReviewRequest) (*models.Review, error) {
	sets := []string{}
	args := []interface{}{id, userID}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.Rating != nil {
		set("rating", *req.Rating)
	}
	if req.Comment != nil {
		set("comment", models.NewNullString(strings.TrimSpace(*req.Comment)))
	}
	set("updated_at", time.Now())

	var review models.Review
	query := `UPDATE reviews SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 AND user_id = $2 RETURNING ` + reviewColumns
	if err := r.db.GetContext(ctx, &review, query, args...); err != nil {
		return nil, classify(err, "update review", reviewNotFound)
	}
	return &review, nil
}

// Delete removes a review owned by userID. The booking is left untouched.
func (r *ReviewRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return classify(err, "delete review", "")
	}
	return requireRow(result, reviewNotFound)
}

// Stats aggregates reviews, optionally restricted to one service
func (r *ReviewRepository) Stats(ctx context.Context, serviceID *uuid.UUID) (*models.ReviewStats, error) {
	var where whereClause
	if serviceID != nil {
		where.add("b.service_id = $%d", *serviceID)
	}
	from := ` FROM reviews rv JOIN bookings b ON b.id = rv.booking_id` + where.String()

	var totals struct {
		Count   int     `db:"total_reviews"`
		Average float64 `db:"average_rating"`
	}
	err := r.db.GetContext(ctx, &totals,
		`SELECT COUNT(*) AS total_reviews, COALESCE(AVG(rv.rating), 0) AS average_rating`+from, where.args...)
	if err != nil {
		return nil, classify(err, "get review stats", "")
	}

	distribution := []models.RatingCount{}
	err = r.db.SelectContext(ctx, &distribution,
		`SELECT rv.rating AS rating, COUNT(*) AS count`+from+` GROUP BY rv.rating ORDER BY rv.rating ASC`, where.args...)
	if err != nil {
		return nil, classify(err, "get rating distribution", "")
	}

	return &models.ReviewStats{
		TotalReviews:       totals.Count,
		AverageRating:      math.Round(totals.Average*10) / 10,
		RatingDistribution: distribution,
	}, nil
}

// prefixColumns qualifies a column list with a table alias
func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}
