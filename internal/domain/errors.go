package domain

import "errors"

var (
	// ErrRestaurantNotFound is returned when a referenced restaurant does not exist
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// ErrItemNotFound is returned when a referenced catalog item does not exist.
	// During matching a missing item excludes that item from the run; it never
	// aborts the rest of the restaurant's pass.
	ErrItemNotFound = errors.New("item not found")

	// ErrMatchNotFound is returned when no match record exists for a key
	ErrMatchNotFound = errors.New("match record not found")

	// ErrPersistenceFailure is returned when a match-store write did not
	// complete; distinct from a successful idempotent no-op
	ErrPersistenceFailure = errors.New("match store write failed")

	// ErrCatalogUnavailable is returned when the catalog store cannot be read
	ErrCatalogUnavailable = errors.New("catalog store unavailable")

	// ErrInvalidRequest is returned when request parameters violate a record
	// invariant or are otherwise malformed
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when a client exceeds the per-IP request limit
	ErrRateLimited = errors.New("rate limit exceeded")
)
