package services

import (
	"context"
	"strings"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/database"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// recentVehicleBookings is how many bookings the vehicle detail carries
const recentVehicleBookings = 5

// VehicleStore is the persistence of customer vehicles
type VehicleStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID, lc *models.Lifecycle) ([]models.Vehicle, error)
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, id, userID uuid.UUID, req models.UpdateVehicleRequest) (*models.Vehicle, error)
	SetLifecycle(ctx context.Context, id, userID uuid.UUID, lc models.Lifecycle) (*models.Vehicle, error)
	Stats(ctx context.Context, id uuid.UUID) (*models.VehicleStats, error)
}

// VehicleBookings reads the bookings of a vehicle
type VehicleBookings interface {
	BookingLister
	CountActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (int, error)
}

// VehicleService manages customer vehicles
type VehicleService struct {
	vehicles VehicleStore
	bookings VehicleBookings
	logger   *logrus.Logger
}

// NewVehicleService creates a new VehicleService
func NewVehicleService(vehicles VehicleStore, bookings VehicleBookings, logger *logrus.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, bookings: bookings, logger: logger}
}

// ListVehicles returns the vehicles of userID
func (s *VehicleService) ListVehicles(ctx context.Context, userID uuid.UUID, isActive string) ([]models.Vehicle, error) {
	return s.vehicles.ListByUser(ctx, userID, models.ParseLifecycleFilter(isActive))
}

// GetVehicle returns a vehicle with its latest bookings
func (s *VehicleService) GetVehicle(ctx context.Context, userID, id uuid.UUID) (*models.VehicleDetail, error) {
	vehicle, err := s.vehicles.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	bookings, _, err := s.bookings.List(ctx,
		models.BookingFilter{VehicleID: &id},
		models.PageRequest{Page: 1, Limit: recentVehicleBookings},
		database.WithService|database.WithTransaction)
	if err != nil {
		return nil, err
	}
	return &models.VehicleDetail{Vehicle: *vehicle, RecentBookings: bookings}, nil
}

// CreateVehicle registers a vehicle. Plates are unique across all users.
func (s *VehicleService) CreateVehicle(ctx context.Context, userID uuid.UUID, req models.CreateVehicleRequest) (*models.Vehicle, error) {
	plate := validator.NormalizePlate(req.PlateNumber)
	if !validator.IsValidPlate(plate) {
		return nil, apperror.NewInvalidInput("Invalid plate number")
	}

	vehicle := &models.Vehicle{
		UserID:      userID,
		Brand:       strings.TrimSpace(req.Brand),
		Model:       strings.TrimSpace(req.Model),
		Year:        req.Year,
		Color:       strings.TrimSpace(req.Color),
		PlateNumber: plate,
		VehicleType: models.VehicleType(req.VehicleType),
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"vehicle_id": vehicle.ID, "user_id": userID}).Info("Vehicle added")
	return vehicle, nil
}

// UpdateVehicle applies a partial update to a vehicle owned by userID
func (s *VehicleService) UpdateVehicle(ctx context.Context, userID, id uuid.UUID, req models.UpdateVehicleRequest) (*models.Vehicle, error) {
	if req.PlateNumber != nil {
		plate := validator.NormalizePlate(*req.PlateNumber)
		if !validator.IsValidPlate(plate) {
			return nil, apperror.NewInvalidInput("Invalid plate number")
		}
		req.PlateNumber = &plate
	}
	return s.vehicles.Update(ctx, id, userID, req)
}

// RetireVehicle soft-deletes a vehicle that no active booking references
func (s *VehicleService) RetireVehicle(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error) {
	if _, err := s.vehicles.GetForUser(ctx, id, userID); err != nil {
		return nil, err
	}
	active, err := s.bookings.CountActiveByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, apperror.NewConflict("Cannot delete vehicle with active bookings")
	}
	return s.vehicles.SetLifecycle(ctx, id, userID, models.LifecycleRetired)
}

// ActivateVehicle reactivates a retired vehicle
func (s *VehicleService) ActivateVehicle(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error) {
	return s.vehicles.SetLifecycle(ctx, id, userID, models.LifecycleActive)
}

// VehicleStats aggregates the bookings of a vehicle owned by userID
func (s *VehicleService) VehicleStats(ctx context.Context, userID, id uuid.UUID) (*models.VehicleStats, error) {
	vehicle, err := s.vehicles.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.vehicles.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	stats.Vehicle = vehicle
	return stats, nil
}
