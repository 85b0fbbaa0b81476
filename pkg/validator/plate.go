package validator

import (
	"regexp"
	"strings"
)

// plateRegex matches Indonesian plates: region letters, number, suffix letters (e.g. "B 1234 XYZ")
var plateRegex = regexp.MustCompile(`^[A-Z]{1,2}\s?\d{1,4}\s?[A-Z]{1,3}$`)

// NormalizePlate trims and upper-cases a plate number
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// IsValidPlate checks the plate number format, case-insensitively
func IsValidPlate(plate string) bool {
	return plateRegex.MatchString(NormalizePlate(plate))
}
