package catalog

import "errors"

var (
	ErrNotFound   = errors.New("not_found")
	ErrValidation = errors.New("validation_failed")
	ErrStoreRead  = errors.New("store_read_failed")
)
