package errors

import "errors"

var (
	ErrNotFound  = errors.New("external booking not found")
	ErrInvalidID = errors.New("invalid external booking ID")
)
