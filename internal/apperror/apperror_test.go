package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{InvalidInput, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Unavailable, http.StatusServiceUnavailable},
		{Internal, http.StatusInternalServerError},
		{Kind("bogus"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	base := NewConflict("time slot already booked")
	wrapped := fmt.Errorf("create booking: %w", base)

	assert.Equal(t, Conflict, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, Conflict))
	assert.True(t, errors.Is(wrapped, &Error{Kind: Conflict}))
	assert.False(t, errors.Is(wrapped, &Error{Kind: NotFound}))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, Internal))
}

func TestError_Message(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Unavailable, "database unavailable", cause)

	assert.Equal(t, "database unavailable: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	invalid := NewInvalidInput("Validation failed", "name is required", "email is invalid")
	assert.Equal(t, "Validation failed", invalid.Error())
	assert.Len(t, invalid.Details, 2)
}
