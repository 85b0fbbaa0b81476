package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidPhone indicates the number does not match the Indonesian format
	ErrInvalidPhone = errors.New("phone number must start with +62, 62 or 0 followed by 9 to 13 digits")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// indonesianPhoneRegex accepts +62 / 62 / 0 followed by 9-13 digits
var indonesianPhoneRegex = regexp.MustCompile(`^(\+62|62|0)[0-9]{9,13}$`)

// PhoneValidator handles phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates an Indonesian phone number
// Accepts format: 081234567890, +6281234567890, 0812-3456-7890 or 0812 3456 7890
// Returns sanitized phone number and error if invalid
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)
	if !indonesianPhoneRegex.MatchString(sanitized) {
		return "", ErrInvalidPhone
	}

	return sanitized, nil
}

// Sanitize removes separators, keeping a leading +
func (v *PhoneValidator) Sanitize(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	return replacer.Replace(strings.TrimSpace(phone))
}

// ToE164 converts a valid number into +62XXXXXXXXX form for SMS delivery
func (v *PhoneValidator) ToE164(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}

	switch {
	case strings.HasPrefix(sanitized, "+62"):
		return sanitized, nil
	case strings.HasPrefix(sanitized, "62"):
		return "+" + sanitized, nil
	default:
		return "+62" + strings.TrimPrefix(sanitized, "0"), nil
	}
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
