package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a listing or profile does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller may not perform the operation
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidListing is returned when seller input fails validation
	ErrInvalidListing = errors.New("invalid listing")

	// ErrInvalidEmbedding is returned when an embedding batch item has the wrong dimension
	ErrInvalidEmbedding = errors.New("invalid embedding")

	// ErrPhoneUnavailable is returned when a dial is requested for a seller
	// without a phone number on file
	ErrPhoneUnavailable = errors.New("phone number not available")

	// ErrFlowClosed is returned by contact flow operations after close or cancel
	ErrFlowClosed = errors.New("contact flow is closed")

	// ErrUpstream wraps failures of the database, object store or messaging
	// collaborators. Prior state is left intact so the caller may retry.
	ErrUpstream = errors.New("upstream failure")
)

// upstream tags a collaborator error so handlers can classify it with errors.Is
func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
