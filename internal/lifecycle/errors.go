package lifecycle

import "errors"

// Error taxonomy for lifecycle operations. Handlers translate these to HTTP
// status codes; anything else is treated as a transient store failure.
var (
	// ErrNotFound means the post or claim id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor lacks ownership or claimer rights.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidOperation means a state-machine precondition was violated.
	ErrInvalidOperation = errors.New("invalid operation")
)
