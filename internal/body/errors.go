package body

import "errors"

// Domain errors for body creation and lookup.
var (
	// ErrInvalidMass indicates a mass that is zero, negative, NaN or infinite.
	ErrInvalidMass = errors.New("body: mass must be finite and positive")

	// ErrInvalidRadius indicates a negative or non-finite radius.
	ErrInvalidRadius = errors.New("body: radius must be finite and non-negative")

	// ErrInvalidVector indicates a position or velocity with a NaN or Inf component.
	ErrInvalidVector = errors.New("body: vector has non-finite component")

	// ErrInvalidHandle indicates a handle that was not issued by this store.
	ErrInvalidHandle = errors.New("body: invalid handle")
)
