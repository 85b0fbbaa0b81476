package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	timeSlotRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]-([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// ErrInvalidDate is returned by ParseDate for unparsable input
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a calendar day given as YYYY-MM-DD or RFC 3339.
// The result is midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrInvalidDate
}

// IsValidTimeSlot checks the HH:MM-HH:MM format
func IsValidTimeSlot(slot string) bool {
	return timeSlotRegex.MatchString(slot)
}

// IsValidEmail checks the email shape
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// StructValidator validates request structs and reports every violated rule
type StructValidator struct {
	validate *validator.Validate
	phone    *PhoneValidator
	now      func() time.Time
}

// NewStructValidator creates a validator with the domain rules registered
func NewStructValidator() *StructValidator {
	return newStructValidator(time.Now)
}

func newStructValidator(now func() time.Time) *StructValidator {
	v := &StructValidator{
		validate: validator.New(),
		phone:    NewPhoneValidator(),
		now:      now,
	}

	// Report fields by their JSON names
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"trimmed_min":   v.trimmedMin,
		"trimmed_max":   v.trimmedMax,
		"email_address": func(fl validator.FieldLevel) bool { return IsValidEmail(fl.Field().String()) },
		"id_phone":      func(fl validator.FieldLevel) bool { return v.phone.IsValid(fl.Field().String()) },
		"plate_number":  func(fl validator.FieldLevel) bool { return IsValidPlate(fl.Field().String()) },
		"time_slot":     func(fl validator.FieldLevel) bool { return IsValidTimeSlot(fl.Field().String()) },
		"booking_date":  v.bookingDate,
		"not_past":      v.notPast,
		"vehicle_year":  v.vehicleYear,
	}
	for tag, fn := range rules {
		// Registration only fails for empty tags or nil funcs
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %s: %v", tag, err))
		}
	}

	return v
}

// Struct validates s and returns one message per violated rule, or nil
func (v *StructValidator) Struct(s interface{}) []string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, message(fe))
	}
	return messages
}

func (v *StructValidator) trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

func (v *StructValidator) trimmedMax(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) <= n
}

func (v *StructValidator) bookingDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// notPast passes unparsable dates; booking_date reports those
func (v *StructValidator) notPast(fl validator.FieldLevel) bool {
	date, err := ParseDate(fl.Field().String())
	if err != nil {
		return true
	}
	today, _ := ParseDate(v.now().Format(dateLayout))
	return !date.Before(today)
}

func (v *StructValidator) vehicleYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= 1900 && year <= int64(v.now().Year()+1)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "trimmed_min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "trimmed_max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "email_address":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "id_phone":
		return "Invalid phone number format"
	case "plate_number":
		return "Valid Indonesian plate number is required"
	case "time_slot":
		return "Valid time slot is required (format: HH:MM-HH:MM)"
	case "booking_date":
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", field)
	case "not_past":
		return "Booking date cannot be in the past"
	case "vehicle_year":
		return "Valid year is required"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
