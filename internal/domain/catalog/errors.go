package catalog

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidComponent = errors.New("invalid component")
	ErrInvalidGame      = errors.New("invalid game")
	ErrNotFound         = errors.New("catalog entry not found")
)
