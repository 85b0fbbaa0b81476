package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondSuccess writes the success envelope
func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC(),
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

// respondList writes a page of items under key together with the pagination block
func respondList(c *gin.Context, key string, items interface{}, pagination models.Pagination) {
	respondSuccess(c, http.StatusOK, "", gin.H{
		key:          items,
		"pagination": pagination,
	})
}

// respondError maps a classified error to its status. Internal errors
// are attached to the context for the request logger and never echoed.
func respondError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	body := gin.H{
		"success":   false,
		"timestamp": time.Now().UTC(),
	}

	switch kind {
	case apperror.Internal:
		_ = c.Error(err)
		body["error"] = "Internal server error"
	case apperror.Unavailable:
		_ = c.Error(err)
		body["error"] = "Database temporarily unavailable"
		body["message"] = "Please try again later"
	default:
		var appErr *apperror.Error
		errors.As(err, &appErr)
		body["error"] = appErr.Message
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	}

	c.AbortWithStatusJSON(kind.Status(), body)
}

// bindJSON decodes the body into req and runs the struct rules.
// It writes the 400 response itself and returns false on failure.
func bindJSON(c *gin.Context, v *validator.StructValidator, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperror.NewInvalidInput("Invalid request body", err.Error()))
		return false
	}
	if violations := v.Struct(req); len(violations) > 0 {
		respondError(c, apperror.NewInvalidInput("Validation failed", violations...))
		return false
	}
	return true
}

// paramID parses a UUID path parameter
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperror.NewInvalidInput("Invalid ID format"))
		return uuid.Nil, false
	}
	return id, true
}

// pageQuery reads the page and limit query parameters; bad values fall back to defaults
func pageQuery(c *gin.Context) models.PageRequest {
	var page models.PageRequest
	_ = c.ShouldBindQuery(&page)
	return page.Normalize()
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	respondError(c, apperror.NewNotFound("Route "+c.Request.URL.Path+" not found"))
}
