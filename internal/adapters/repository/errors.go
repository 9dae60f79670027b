package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrInvalidLimit = errors.New("invalid limit")
	ErrClosed       = errors.New("store closed")
	ErrInvalidSeed  = errors.New("invalid seed file")
)
