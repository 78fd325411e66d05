package service

import (
	"errors"
	"fmt"

	"github.com/mtunzisteven/foodStorageManager/internal/ownership"
	"github.com/mtunzisteven/foodStorageManager/internal/sequence"
)

// Failure kinds returned by the service layer. Every error leaving a service
// wraps exactly one of these sentinels, so the HTTP layer can map failures to
// stable (kind, message) pairs with errors.Is and nothing unclassified ever
// reaches a caller.
var (
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrAuthentication is returned for a missing or invalid identity proof.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization is returned when a valid identity lacks rights over
	// the specific resource.
	ErrAuthorization = errors.New("not allowed")

	// ErrNotFound is returned when a resource id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a signup or update collides with an
	// existing email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrAllocation is returned when the sequence allocator could not
	// guarantee a unique id. Fatal to the request, not to the process.
	ErrAllocation = errors.New("id allocation failed")

	// ErrInternal classifies anything unexpected from a lower layer.
	ErrInternal = errors.New("internal error")
)

// classifyAllocation maps allocator failures into the service taxonomy. An
// unknown counter name can only come from a programming error, so it is
// classified internal rather than surfaced as an allocation failure.
func classifyAllocation(err error) error {
	if errors.Is(err, sequence.ErrUnknownCounter) {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return fmt.Errorf("%w: %v", ErrAllocation, err)
}

// classifyGuard maps ownership guard failures into the service taxonomy,
// preserving the existence-before-ownership distinction.
func classifyGuard(err error) error {
	switch {
	case errors.Is(err, ownership.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, ownership.ErrNotOwner):
		return fmt.Errorf("%w: %v", ErrAuthorization, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
