package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateGroupName checks that a vertex group name is usable as a map key in
// snapshots and as a label in exported graphs.
func ValidateGroupName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidGroup, "group name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidGroup, "group name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGroup, "group name contains invalid control characters")
		}
	}
	return nil
}

// ValidateRange checks a lower/upper limit pair. Limits outside [0,1] are
// allowed, matching soft slider bounds, but NaN and infinities are not.
func ValidateRange(lower, upper float64) error {
	for _, v := range []float64{lower, upper} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidRange, "limit must be a finite number, got %v", v)
		}
	}
	return nil
}

// ValidateFactor checks that a blend factor lies in [0,1].
func ValidateFactor(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return New(ErrCodeInvalidRange, "blend factor must be within [0,1], got %v", t)
	}
	return nil
}
