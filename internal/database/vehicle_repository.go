package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const vehicleNotFound = "Vehicle not found"

// VehicleRepository handles customer vehicles. Every read and write is owner-scoped.
type VehicleRepository struct {
	db *sqlx.DB
}

// NewVehicleRepository creates a new VehicleRepository
func NewVehicleRepository(db *sqlx.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// ListByUser returns the vehicles of userID, newest first
func (r *VehicleRepository) ListByUser(ctx context.Context, userID uuid.UUID, lc *models.Lifecycle) ([]models.Vehicle, error) {
	var where whereClause
	where.add("user_id = $%d", userID)
	if lc != nil {
		where.add("is_active = $%d", *lc)
	}

	vehicles := []models.Vehicle{}
	query := `SELECT ` + vehicleColumns + ` FROM vehicles` + where.String() + ` ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &vehicles, query, where.args...); err != nil {
		return nil, classify(err, "list vehicles", "")
	}
	return vehicles, nil
}

// GetForUser retrieves a vehicle owned by userID
func (r *VehicleRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.GetContext(ctx, &vehicle,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, classify(err, "get vehicle", vehicleNotFound)
	}
	return &vehicle, nil
}

// Create inserts an active vehicle. The plate must already be normalized.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	now := time.Now()
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	vehicle.Lifecycle = models.LifecycleActive
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		vehicle.ID, vehicle.UserID, vehicle.Brand, vehicle.Model, vehicle.Year,
		vehicle.Color, vehicle.PlateNumber, vehicle.VehicleType, vehicle.Lifecycle,
		vehicle.CreatedAt, vehicle.UpdatedAt,
	)
	return classify(err, "create vehicle", "")
}

// Update applies the non-nil fields of req to a vehicle owned by userID
func (r *VehicleRepository) Update(ctx context.Context, id, userID uuid.UUID, req models.UpdateVehicleRequest) (*models.Vehicle, error) {
	sets := []string{}
	args := []interface{}{id, userID}
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.Brand != nil {
		set("brand", strings.TrimSpace(*req.Brand))
	}
	if req.Model != nil {
		set("model", strings.TrimSpace(*req.Model))
	}
	if req.Year != nil {
		set("year", *req.Year)
	}
	if req.Color != nil {
		set("color", strings.TrimSpace(*req.Color))
	}
	if req.PlateNumber != nil {
		set("plate_number", *req.PlateNumber)
	}
	if req.VehicleType != nil {
		set("vehicle_type", *req.VehicleType)
	}
	set("updated_at", time.Now())

	var vehicle models.Vehicle
	query := `UPDATE vehicles SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 AND user_id = $2 RETURNING ` + vehicleColumns
	if err := r.db.GetContext(ctx, &vehicle, query, args...); err != nil {
		return nil, classify(err, "update vehicle", vehicleNotFound)
	}
	return &vehicle, nil
}

// SetLifecycle retires or reactivates a vehicle owned by userID
func (r *VehicleRepository) SetLifecycle(ctx context.Context, id, userID uuid.UUID, lc models.Lifecycle) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.GetContext(ctx, &vehicle,
		`UPDATE vehicles SET is_active = $3, updated_at = $4 WHERE id = $1 AND user_id = $2 RETURNING `+vehicleColumns,
		id, userID, lc, time.Now())
	if err != nil {
		return nil, classify(err, "update vehicle lifecycle", vehicleNotFound)
	}
	return &vehicle, nil
}

// Stats aggregates the bookings of a vehicle. totalSpent sums paid transactions.
func (r *VehicleRepository) Stats(ctx context.Context, id uuid.UUID) (*models.VehicleStats, error) {
	var stats models.VehicleStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(b.id)                                           AS total_bookings,
			COUNT(b.id) FILTER (WHERE b.status = 'done')          AS completed_bookings,
			COALESCE(SUM(t.amount) FILTER (WHERE t.status = 'paid'), 0) AS total_spent
		FROM bookings b
		LEFT JOIN transactions t ON t.booking_id = b.id
		WHERE b.vehicle_id = $1`, id)
	if err != nil {
		return nil, classify(err, "get vehicle stats", "")
	}
	return &stats, nil
}
