package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidNumber = errors.New("must be a finite number")

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination converts 1-based page and page size query values into limit/offset.
// Missing or malformed values fall back to the first page of DefaultPageSize rows.
func Pagination(pageStr, limitStr string) (limit, offset int) {
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// OptionalFloat parses an optional query value. Empty input yields nil; input that
// is not a finite number yields ErrInvalidNumber.
func OptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ErrInvalidNumber
	}
	return &v, nil
}
