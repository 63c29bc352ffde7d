package model

import "errors"

var (
	// Pagination errors
	ErrMalformedPage = errors.New("malformed page envelope")
	ErrInvalidPage   = errors.New("inconsistent page envelope")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidRole  = errors.New("invalid role")
)
