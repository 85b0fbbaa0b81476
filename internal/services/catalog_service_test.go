package services

import (
	"context"
	"testing"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCatalog is an in-memory ServiceStore backed by memDB
type memCatalog struct{ db *memDB }

func (m memCatalog) List(_ context.Context, lc *models.Lifecycle) ([]models.Service, error) {
	var out []models.Service
	for _, s := range m.db.services {
		if lc == nil || s.Lifecycle == *lc {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m memCatalog) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return fakeServices(m).GetByID(ctx, id)
}

func (m memCatalog) Stats(context.Context, uuid.UUID) (*models.ServiceStats, error) {
	return &models.ServiceStats{TotalBookings: 3, AverageRating: 4.7, TotalReviews: 3}, nil
}

func (m memCatalog) Create(_ context.Context, s *models.Service) error {
	s.ID = uuid.New()
	s.Lifecycle = models.LifecycleActive
	copied := *s
	m.db.services[s.ID] = &copied
	return nil
}

func (m memCatalog) Update(_ context.Context, id uuid.UUID, req models.UpdateServiceRequest) (*models.Service, error) {
	s, ok := m.db.services[id]
	if !ok {
		return nil, apperror.NewNotFound("Service not found")
	}
	if req.Price != nil {
		s.Price = *req.Price
	}
	if req.IsActive != nil {
		s.Lifecycle = models.LifecycleFromActive(*req.IsActive)
	}
	copied := *s
	return &copied, nil
}

func (m memCatalog) SetLifecycle(_ context.Context, id uuid.UUID, lc models.Lifecycle) (*models.Service, error) {
	s, ok := m.db.services[id]
	if !ok {
		return nil, apperror.NewNotFound("Service not found")
	}
	s.Lifecycle = lc
	copied := *s
	return &copied, nil
}

func setupCatalogTest() (*CatalogService, *bookingFixture) {
	f := setupBookingTest()
	return NewCatalogService(memCatalog{f.db}, fakeBookings{f.db}, testLogger()), f
}

func TestCatalog_CreateAndList(t *testing.T) {
	catalog, f := setupCatalogTest()
	ctx := context.Background()

	created, err := catalog.CreateService(ctx, models.CreateServiceRequest{
		Name: " Cuci Mobil Premium ", Description: "Cuci + wax", Price: 100000, Duration: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cuci Mobil Premium", created.Name)

	_, err = catalog.CreateService(ctx, models.CreateServiceRequest{Name: "Free", Price: 0, Duration: 30})
	assert.True(t, apperror.IsKind(err, apperror.InvalidInput))

	_, err = catalog.RetireService(ctx, created.ID)
	require.NoError(t, err)

	active, err := catalog.ListServices(ctx, "true")
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, f.catalog.ID, active[0].ID)

	all, err := catalog.ListServices(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalog_GetServiceWithStats(t *testing.T) {
	catalog, f := setupCatalogTest()

	detail, err := catalog.GetService(context.Background(), f.catalog.ID)
	require.NoError(t, err)
	assert.Equal(t, f.catalog.Name, detail.Name)
	assert.Equal(t, 4.7, detail.AverageRating)

	_, err = catalog.GetService(context.Background(), uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.NotFound))
}

func TestCatalog_RetireWithActiveBookings(t *testing.T) {
	catalog, f := setupCatalogTest()
	ctx := context.Background()

	booking, err := f.service.CreateBooking(ctx, f.user.ID, f.request("2025-03-02", "09:00-10:00"))
	require.NoError(t, err)

	_, err = catalog.RetireService(ctx, f.catalog.ID)
	require.Error(t, err)
	assert.Equal(t, "Cannot delete service with active bookings", err.Error())

	_, err = f.service.AdminUpdateStatus(ctx, booking.ID, "done")
	require.NoError(t, err)

	retired, err := catalog.RetireService(ctx, f.catalog.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LifecycleRetired, retired.Lifecycle)

	// retired services stay readable but reject bookings
	_, err = f.service.CreateBooking(ctx, f.user.ID, f.request("2025-03-02", "10:00-11:00"))
	assert.True(t, apperror.IsKind(err, apperror.NotFound))

	activated, err := catalog.ActivateService(ctx, f.catalog.ID)
	require.NoError(t, err)
	assert.True(t, activated.Lifecycle.IsActive())
}

func TestCatalog_UpdateService(t *testing.T) {
	catalog, f := setupCatalogTest()

	negative := int64(-1)
	_, err := catalog.UpdateService(context.Background(), f.catalog.ID, models.UpdateServiceRequest{Price: &negative})
	assert.True(t, apperror.IsKind(err, apperror.InvalidInput))

	price := int64(60000)
	updated, err := catalog.UpdateService(context.Background(), f.catalog.ID, models.UpdateServiceRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, price, updated.Price)
}
