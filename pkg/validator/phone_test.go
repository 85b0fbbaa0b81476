package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneValidator(t *testing.T) {
	validator := NewPhoneValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"081234567890", "081234567890", "Local format"},
		{"0812 3456 7890", "081234567890", "With spaces"},
		{"0812-3456-7890", "081234567890", "With dashes"},
		{"+6281234567890", "+6281234567890", "International format"},
		{"6281234567890", "6281234567890", "Country code without plus"},
		{"0212345678", "0212345678", "Landline minimum length"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty string"},
		{"   ", ErrEmptyPhone, "Whitespace only"},
		{"08123", ErrInvalidPhone, "Too short"},
		{"08123456789012345", ErrInvalidPhone, "Too long"},
		{"+9481234567890", ErrInvalidPhone, "Foreign country code"},
		{"0812345678a", ErrInvalidPhone, "Contains letters"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.False(t, validator.IsValid(tc.input))
		})
	}
}

func TestToE164(t *testing.T) {
	validator := NewPhoneValidator()

	tests := []struct {
		input    string
		expected string
	}{
		{"081234567890", "+6281234567890"},
		{"6281234567890", "+6281234567890"},
		{"+6281234567890", "+6281234567890"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			e164, err := validator.ToE164(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, e164)
		})
	}

	_, err := validator.ToE164("12345")
	assert.Error(t, err)
}
