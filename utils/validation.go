// utils/validation.go
package utils

import (
	"math"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	return phonePattern.MatchString(cleaned)
}

// MaxPrice is the largest magnitude a decimal(10,2) price or cost column holds.
const MaxPrice = 99999999.99

// ValidateServicePrice accepts any finite number within MaxPrice. Negative
// prices are discounts.
func ValidateServicePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return Errorf(ErrValidation, "Price must be a finite number")
	}
	if math.Abs(price) > MaxPrice {
		return Errorf(ErrValidation, "Price must be between -%.2f and %.2f", MaxPrice, MaxPrice)
	}
	return nil
}

// ValidateVehicleTypes checks every element is a non-empty string after trimming
// and returns the trimmed, de-duplicated set in input order.
func ValidateVehicleTypes(types []string) ([]string, error) {
	cleaned := make([]string, 0, len(types))
	seen := make(map[string]struct{}, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, Errorf(ErrValidation, "Vehicle types must be non-empty strings")
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		cleaned = append(cleaned, t)
	}
	return cleaned, nil
}

// ValidateRequired fails when value is blank.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Errorf(ErrValidation, "%s is required", field)
	}
	return nil
}
