package models

import (
	"database/sql/driver"
	"fmt"
)

// Lifecycle is the soft-delete state of a service or vehicle.
// Retired records reject new bookings but keep their history.
// It is persisted as the boolean is_active column.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "active"
	LifecycleRetired Lifecycle = "retired"
)

// IsActive reports whether the record accepts new bookings
func (l Lifecycle) IsActive() bool {
	return l == LifecycleActive
}

// LifecycleFromActive maps an is_active flag to a Lifecycle
func LifecycleFromActive(active bool) Lifecycle {
	if active {
		return LifecycleActive
	}
	return LifecycleRetired
}

// ParseLifecycleFilter converts the isActive query parameter into a filter.
// An empty value means no filter.
func ParseLifecycleFilter(isActive string) *Lifecycle {
	if isActive == "" {
		return nil
	}
	lc := LifecycleFromActive(isActive == "true")
	return &lc
}

// Value implements the driver.Valuer interface
func (l Lifecycle) Value() (driver.Value, error) {
	return l == LifecycleActive, nil
}

// Scan implements the sql.Scanner interface
func (l *Lifecycle) Scan(src interface{}) error {
	switch v := src.(type) {
	case bool:
		*l = LifecycleFromActive(v)
	case []byte:
		*l = LifecycleFromActive(string(v) == "t" || string(v) == "true")
	case string:
		*l = LifecycleFromActive(v == "t" || v == "true")
	case nil:
		*l = LifecycleRetired
	default:
		return fmt.Errorf("cannot scan %T into Lifecycle", src)
	}
	return nil
}
