package booking

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrValidation        = errors.New("validation error")
	ErrTourUnavailable   = errors.New("tour not available for booking")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrStoreRead         = errors.New("store read failed")
	ErrStoreWrite        = errors.New("store write failed")
	ErrNoVoucher         = errors.New("no voucher for cancelled booking")
)

// FieldErrors maps JSON field names to the rule they failed. It matches ErrValidation.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, rule := range e {
		parts = append(parts, field+": "+rule)
	}
	sort.Strings(parts)
	return "validation error: " + strings.Join(parts, ", ")
}

func (e FieldErrors) Is(target error) bool {
	return target == ErrValidation
}
