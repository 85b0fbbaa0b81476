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

const serviceNotFound = "Service not found"

// ServiceRepository handles the service catalog
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository creates a new ServiceRepository
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// List returns the catalog ordered by name, optionally filtered by lifecycle
func (r *ServiceRepository) List(ctx context.Context, lc *models.Lifecycle) ([]models.Service, error) {
	var where whereClause
	if lc != nil {
		where.add("is_active = $%d", *lc)
	}

	services := []models.Service{}
	query := `SELECT ` + serviceColumns + ` FROM services` + where.String() + ` ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &services, query, where.args...); err != nil {
		return nil, classify(err, "list services", "")
	}
	return services, nil
}

// GetByID retrieves a service regardless of lifecycle
func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := r.db.GetContext(ctx, &service, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	if err != nil {
		return nil, classify(err, "get service", serviceNotFound)
	}
	return &service, nil
}

// Stats aggregates the completed bookings of a service and their reviews
func (r *ServiceRepository) Stats(ctx context.Context, id uuid.UUID) (*models.ServiceStats, error) {
	var stats models.ServiceStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(DISTINCT b.id)           AS total_bookings,
			COALESCE(AVG(rv.rating), 0)    AS average_rating,
			COUNT(rv.id)                   AS total_reviews
		FROM bookings b
		LEFT JOIN reviews rv ON rv.booking_id = b.id
		WHERE b.service_id = $1 AND b.status = 'done'`, id)
	if err != nil {
		return nil, classify(err, "get service stats", "")
	}
	stats.AverageRating = math.Round(stats.AverageRating*10) / 10
	return &stats, nil
}

// Create inserts an active service
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	now := time.Now()
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	service.Lifecycle = models.LifecycleActive
	service.CreatedAt = now
	service.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		service.ID, service.Name, service.Description, service.Price,
		service.Duration, service.Lifecycle, service.CreatedAt, service.UpdatedAt,
	)
	return classify(err, "create service", "")
}

// Update applies the non-nil fields of req and returns the fresh row
func (r *ServiceRepository) Update(ctx context.Context, id uuid.UUID, req models.UpdateServiceRequest) (*models.Service, error) {
	sets := []string{}
	args := []interface{}{id}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.Name != nil {
		set("name", strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Price != nil {
		set("price", *req.Price)
	}
	if req.Duration != nil {
		set("duration", *req.Duration)
	}
	if req.IsActive != nil {
		set("is_active", models.LifecycleFromActive(*req.IsActive))
	}
	set("updated_at", time.Now())

	var service models.Service
	query := `UPDATE services SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + serviceColumns
	if err := r.db.GetContext(ctx, &service, query, args...); err != nil {
		return nil, classify(err, "update service", serviceNotFound)
	}
	return &service, nil
}

// SetLifecycle retires or reactivates a service
func (r *ServiceRepository) SetLifecycle(ctx context.Context, id uuid.UUID, lc models.Lifecycle) (*models.Service, error) {
	var service models.Service
	err := r.db.GetContext(ctx, &service,
		`UPDATE services SET is_active = $2, updated_at = $3 WHERE id = $1 RETURNING `+serviceColumns,
		id, lc, time.Now())
	if err != nil {
		return nil, classify(err, "update service lifecycle", serviceNotFound)
	}
	return &service, nil
}

// Count returns the number of services in the catalog
func (r *ServiceRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM services`); err != nil {
		return 0, classify(err, "count services", "")
	}
	return n, nil
}
