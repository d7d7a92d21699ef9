package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("film not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInternal            = errors.New("internal catalog error")
)

// KindOf returns the sentinel wrapped by err, or nil if err carries none.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrUpstreamUnavailable):
		return ErrUpstreamUnavailable
	case errors.Is(err, ErrInternal):
		return ErrInternal
	default:
		return nil
	}
}

// wrap keeps both the sentinel and the cause reachable through errors.Is/As.
func wrap(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
