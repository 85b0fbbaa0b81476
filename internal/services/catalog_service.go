package services

import (
	"context"
	"strings"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ServiceStore is the persistence of the service catalog
type ServiceStore interface {
	List(ctx context.Context, lc *models.Lifecycle) ([]models.Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Stats(ctx context.Context, id uuid.UUID) (*models.ServiceStats, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, id uuid.UUID, req models.UpdateServiceRequest) (*models.Service, error)
	SetLifecycle(ctx context.Context, id uuid.UUID, lc models.Lifecycle) (*models.Service, error)
}

// ActiveServiceBookings counts the pending/processing bookings of a service
type ActiveServiceBookings interface {
	CountActiveByService(ctx context.Context, serviceID uuid.UUID) (int, error)
}

// CatalogService manages the car-wash service catalog
type CatalogService struct {
	services ServiceStore
	bookings ActiveServiceBookings
	logger   *logrus.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(services ServiceStore, bookings ActiveServiceBookings, logger *logrus.Logger) *CatalogService {
	return &CatalogService{services: services, bookings: bookings, logger: logger}
}

// ListServices returns the catalog; isActive is the raw query filter
func (s *CatalogService) ListServices(ctx context.Context, isActive string) ([]models.Service, error) {
	return s.services.List(ctx, models.ParseLifecycleFilter(isActive))
}

// GetService returns a service with its completed-booking stats
func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*models.ServiceDetail, error) {
	service, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.services.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ServiceDetail{Service: *service, ServiceStats: *stats}, nil
}

// CreateService adds an active catalog entry
func (s *CatalogService) CreateService(ctx context.Context, req models.CreateServiceRequest) (*models.Service, error) {
	if req.Price <= 0 || req.Duration <= 0 {
		return nil, apperror.NewInvalidInput("Price and duration must be positive numbers")
	}
	service := &models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Duration:    req.Duration,
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"service_id": service.ID, "name": service.Name}).Info("Service created")
	return service, nil
}

// UpdateService applies a partial update
func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, req models.UpdateServiceRequest) (*models.Service, error) {
	if req.Price != nil && *req.Price <= 0 {
		return nil, apperror.NewInvalidInput("Price must be a positive number")
	}
	if req.Duration != nil && *req.Duration <= 0 {
		return nil, apperror.NewInvalidInput("Duration must be a positive number")
	}
	return s.services.Update(ctx, id, req)
}

// RetireService soft-deletes a service that no active booking references
func (s *CatalogService) RetireService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	if _, err := s.services.GetByID(ctx, id); err != nil {
		return nil, err
	}
	active, err := s.bookings.CountActiveByService(ctx, id)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, apperror.NewConflict("Cannot delete service with active bookings")
	}

	service, err := s.services.SetLifecycle(ctx, id, models.LifecycleRetired)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"service_id": id}).Info("Service retired")
	return service, nil
}

// ActivateService puts a retired service back into the catalog
func (s *CatalogService) ActivateService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.services.SetLifecycle(ctx, id, models.LifecycleActive)
}
