package handlers

import (
	"context"
	"net/http"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogAPI is the service catalog surface used by ServiceHandler
type CatalogAPI interface {
	ListServices(ctx context.Context, isActive string) ([]models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.ServiceDetail, error)
	CreateService(ctx context.Context, req models.CreateServiceRequest) (*models.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, req models.UpdateServiceRequest) (*models.Service, error)
	RetireService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ActivateService(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

// ServiceHandler handles the wash service catalog
type ServiceHandler struct {
	catalog   CatalogAPI
	validator *validator.StructValidator
}

// NewServiceHandler creates a new ServiceHandler
func NewServiceHandler(catalog CatalogAPI, v *validator.StructValidator) *ServiceHandler {
	return &ServiceHandler{catalog: catalog, validator: v}
}

// ListServices returns the catalog, optionally filtered by isActive
// GET /api/services
func (h *ServiceHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context(), c.Query("isActive"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", services)
}

// GetService returns one service with its booking counts
// GET /api/services/:id
func (h *ServiceHandler) GetService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	service, err := h.catalog.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", service)
}

// CreateService adds a service to the catalog
// POST /api/services
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req models.CreateServiceRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	service, err := h.catalog.CreateService(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Service created successfully", service)
}

// UpdateService applies a partial update
// PUT /api/services/:id
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateServiceRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	service, err := h.catalog.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Service updated successfully", service)
}

// DeleteService retires a service; rows are never removed
// DELETE /api/services/:id
func (h *ServiceHandler) DeleteService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	service, err := h.catalog.RetireService(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Service deleted successfully", service)
}

// ActivateService reactivates a retired service
// PATCH /api/services/:id/activate
func (h *ServiceHandler) ActivateService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	service, err := h.catalog.ActivateService(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Service activated successfully", service)
}
