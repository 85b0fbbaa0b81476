package handlers

import (
	"context"
	"net/http"

	"github.com/carwash/carwash-backend/internal/middleware"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VehicleAPI is the vehicle surface used by VehicleHandler
type VehicleAPI interface {
	ListVehicles(ctx context.Context, userID uuid.UUID, isActive string) ([]models.Vehicle, error)
	GetVehicle(ctx context.Context, userID, id uuid.UUID) (*models.VehicleDetail, error)
	CreateVehicle(ctx context.Context, userID uuid.UUID, req models.CreateVehicleRequest) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, userID, id uuid.UUID, req models.UpdateVehicleRequest) (*models.Vehicle, error)
	RetireVehicle(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error)
	ActivateVehicle(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error)
	VehicleStats(ctx context.Context, userID, id uuid.UUID) (*models.VehicleStats, error)
}

// VehicleHandler handles the caller's vehicles
type VehicleHandler struct {
	vehicles  VehicleAPI
	validator *validator.StructValidator
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(vehicles VehicleAPI, v *validator.StructValidator) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, validator: v}
}

// ListVehicles GET /api/vehicles?isActive=
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	vehicles, err := h.vehicles.ListVehicles(c.Request.Context(), userCtx.UserID, c.Query("isActive"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", vehicles)
}

// GetVehicle returns a vehicle with its recent bookings
// GET /api/vehicles/:id
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.vehicles.GetVehicle(c.Request.Context(), userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", vehicle)
}

// CreateVehicle POST /api/vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateVehicleRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	vehicle, err := h.vehicles.CreateVehicle(c.Request.Context(), userCtx.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Vehicle added successfully", vehicle)
}

// UpdateVehicle PUT /api/vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateVehicleRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	vehicle, err := h.vehicles.UpdateVehicle(c.Request.Context(), userCtx.UserID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Vehicle updated successfully", vehicle)
}

// DeleteVehicle retires a vehicle
// DELETE /api/vehicles/:id
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.vehicles.RetireVehicle(c.Request.Context(), userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Vehicle deleted successfully", vehicle)
}

// ActivateVehicle PATCH /api/vehicles/:id/activate
func (h *VehicleHandler) ActivateVehicle(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.vehicles.ActivateVehicle(c.Request.Context(), userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Vehicle activated successfully", vehicle)
}

// GetVehicleStats GET /api/vehicles/:id/stats
func (h *VehicleHandler) GetVehicleStats(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	stats, err := h.vehicles.VehicleStats(c.Request.Context(), userCtx.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", stats)
}
