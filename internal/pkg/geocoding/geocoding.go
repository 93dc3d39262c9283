// Package geocoding resolves free-text addresses to coordinates through an
// external geocoding provider.
package geocoding

import (
	"context"
	"fmt"

	"github.com/cliqueup/cliqueup/internal/pkg/geo"
)

// Client resolves a free-text address to a coordinate.
type Client interface {
	Resolve(ctx context.Context, address string) (geo.Coordinate, error)
}

// Error reports a failed address resolution. It wraps the underlying
// provider error so callers can inspect the cause with errors.Unwrap.
type Error struct {
	Address string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("geocode failed for %q: %v", e.Address, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a geocoding Error for the given address and cause.
func NewError(address string, err error) *Error {
	return &Error{Address: address, Err: err}
}
