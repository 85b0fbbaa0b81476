package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	serviceRowColumns = []string{"id", "name", "description", "price", "duration", "is_active", "created_at", "updated_at"}
	vehicleRowColumns = []string{"id", "user_id", "brand", "model", "year", "color", "plate_number", "vehicle_type", "is_active", "created_at", "updated_at"}
)

func TestServiceRepositoryList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)
	now := time.Now()
	active := models.LifecycleActive

	mock.ExpectQuery(`SELECT (.+) FROM services WHERE is_active = \$1 ORDER BY name ASC`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(serviceRowColumns).
			AddRow(uuid.New().String(), "Cuci Mobil Reguler", "Cuci luar dalam", 25000, 30, true, now, now))

	services, err := repo.List(context.Background(), &active)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, models.LifecycleActive, services[0].Lifecycle)
	assert.Equal(t, int64(25000), services[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`FROM bookings b\s+LEFT JOIN reviews`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"total_bookings", "average_rating", "total_reviews"}).
			AddRow(3, 4.3333333, 3))

	stats, err := repo.Stats(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalBookings)
	assert.Equal(t, 4.3, stats.AverageRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepositoryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Partial Update", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewServiceRepository(db)
		id := uuid.New()
		now := time.Now()
		price := int64(30000)
		inactive := false

		mock.ExpectQuery(`UPDATE services SET price = \$2, is_active = \$3, updated_at = \$4 WHERE id = \$1`).
			WithArgs(id, price, false, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(serviceRowColumns).
				AddRow(id.String(), "Cuci Motor", "Cuci motor", price, 20, false, now, now))

		service, err := repo.Update(ctx, id, models.UpdateServiceRequest{Price: &price, IsActive: &inactive})
		require.NoError(t, err)
		assert.Equal(t, models.LifecycleRetired, service.Lifecycle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewServiceRepository(db)

		mock.ExpectQuery(`UPDATE services`).WillReturnError(sql.ErrNoRows)

		_, err := repo.SetLifecycle(ctx, uuid.New(), models.LifecycleRetired)
		assert.True(t, apperror.IsKind(err, apperror.NotFound))
		assert.Contains(t, err.Error(), "Service not found")
	})
}

func TestVehicleRepositoryCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVehicleRepository(db)

		mock.ExpectExec(`INSERT INTO vehicles`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Toyota", "Avanza", 2020, "Hitam", "B 1234 ABC",
				models.VehicleTypeCar, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		vehicle := &models.Vehicle{
			UserID: uuid.New(), Brand: "Toyota", Model: "Avanza", Year: 2020,
			Color: "Hitam", PlateNumber: "B 1234 ABC", VehicleType: models.VehicleTypeCar,
		}
		require.NoError(t, repo.Create(ctx, vehicle))
		assert.True(t, vehicle.Lifecycle.IsActive())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Plate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVehicleRepository(db)

		mock.ExpectExec(`INSERT INTO vehicles`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "vehicles_plate_number_key"})

		err := repo.Create(ctx, &models.Vehicle{UserID: uuid.New()})
		assert.True(t, apperror.IsKind(err, apperror.Conflict))
		assert.Contains(t, err.Error(), "Vehicle with this plate number already exists")
	})
}

func TestVehicleRepositoryGetForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVehicleRepository(db)
	id, userID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM vehicles WHERE id = \$1 AND user_id = \$2`).
		WithArgs(id, userID).
		WillReturnRows(sqlmock.NewRows(vehicleRowColumns).
			AddRow(id.String(), userID.String(), "Honda", "Beat", 2022, "Merah", "D 4321 XY", "motorcycle", "f", now, now))

	vehicle, err := repo.GetForUser(context.Background(), id, userID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleTypeMotorcycle, vehicle.VehicleType)
	assert.Equal(t, models.LifecycleRetired, vehicle.Lifecycle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepositoryStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVehicleRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`LEFT JOIN transactions t ON t.booking_id = b.id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"total_bookings", "completed_bookings", "total_spent"}).AddRow(4, 2, 50000))

	stats, err := repo.Stats(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalBookings)
	assert.Equal(t, 2, stats.CompletedBookings)
	assert.Equal(t, int64(50000), stats.TotalSpent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)
	serviceID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_reviews`).
		WithArgs(serviceID).
		WillReturnRows(sqlmock.NewRows([]string{"total_reviews", "average_rating"}).AddRow(3, 4.6666))
	mock.ExpectQuery(`GROUP BY rv.rating ORDER BY rv.rating ASC`).
		WithArgs(serviceID).
		WillReturnRows(sqlmock.NewRows([]string{"rating", "count"}).AddRow(4, 1).AddRow(5, 2))

	stats, err := repo.Stats(context.Background(), &serviceID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalReviews)
	assert.Equal(t, 4.7, stats.AverageRating)
	assert.Equal(t, []models.RatingCount{{Rating: 4, Count: 1}, {Rating: 5, Count: 2}}, stats.RatingDistribution)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectExec(`INSERT INTO reviews`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reviews_booking_id_key"})

	err := repo.Create(context.Background(), &models.Review{UserID: uuid.New(), BookingID: uuid.New(), Rating: 5})
	assert.True(t, apperror.IsKind(err, apperror.Conflict))
	assert.Contains(t, err.Error(), "Review already exists for this booking")
}

func TestReviewRepositoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1 AND user_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.NotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryBookingCounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)
	start, end := time.Now().Add(-24*time.Hour), time.Now()

	mock.ExpectQuery(`FILTER \(WHERE status = 'pending'\)`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "processing", "completed", "cancelled"}).
			AddRow(10, 3, 2, 4, 1))

	counts, err := repo.BookingCounts(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCounts{Total: 10, Pending: 3, Processing: 2, Completed: 4, Cancelled: 1}, *counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
