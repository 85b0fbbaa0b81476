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

// UserAPI is the account surface used by UserHandler
type UserAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req models.ChangePasswordRequest) error
}

// UserHandler handles registration, login and profile endpoints
type UserHandler struct {
	users     UserAPI
	validator *validator.StructValidator
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserAPI, v *validator.StructValidator) *UserHandler {
	return &UserHandler{users: users, validator: v}
}

// Register creates an account and returns a token
// POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	resp, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "User registered successfully", resp)
}

// Login exchanges credentials for a token
// POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	resp, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Login successful", resp)
}

// GetProfile returns the authenticated user
// GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	user, err := h.users.GetProfile(c.Request.Context(), userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "", user)
}

// UpdateProfile changes name and/or email
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.UpdateProfileRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userCtx.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Profile updated successfully", user)
}

// ChangePassword verifies the current password and stores the new one
// PATCH /api/users/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.ChangePasswordRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), userCtx.UserID, req); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Password changed successfully", nil)
}
