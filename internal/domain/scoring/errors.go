package scoring

import "errors"

var (
	// ErrUnknownGame is returned when a title is not in the registry.
	ErrUnknownGame = errors.New("unknown game")
	// ErrInvalidBudget is returned for a budget outside low/medium/high.
	ErrInvalidBudget = errors.New("invalid budget")
)
