package database

import (
	"context"
	"time"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// ReportRepository runs the aggregate queries behind the admin dashboard
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// BookingCounts counts bookings created in [start, end], in total and per status
func (r *ReportRepository) BookingCounts(ctx context.Context, start, end time.Time) (*models.BookingCounts, error) {
	var row struct {
		Total      int `db:"total"`
		Pending    int `db:"pending"`
		Processing int `db:"processing"`
		Completed  int `db:"completed"`
		Cancelled  int `db:"cancelled"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT
			COUNT(*)                                         AS total,
			COUNT(*) FILTER (WHERE status = 'pending')       AS pending,
			COUNT(*) FILTER (WHERE status = 'processing')    AS processing,
			COUNT(*) FILTER (WHERE status = 'done')          AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled')     AS cancelled
		FROM bookings
		WHERE created_at >= $1 AND created_at <= $2`, start, end)
	if err != nil {
		return nil, classify(err, "count bookings", "")
	}
	counts := models.BookingCounts(row)
	return &counts, nil
}

// NewUsers counts customers (role user) registered in [start, end]
func (r *ReportRepository) NewUsers(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM users
		WHERE role = 'user' AND created_at >= $1 AND created_at <= $2`, start, end)
	if err != nil {
		return 0, classify(err, "count users", "")
	}
	return n, nil
}
