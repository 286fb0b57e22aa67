package registry

import "errors"

var (
	// ErrDuplicateProvider is returned by Register when the name is already
	// registered. The existing registration is left untouched.
	ErrDuplicateProvider = errors.New("provider is already registered")

	// ErrInvalidFactory is returned by Register when the supplied factory does
	// not satisfy the provider contract (a nil factory).
	ErrInvalidFactory = errors.New("provider factory must not be nil")

	// ErrUnknownProvider is returned by InitializeProvider for names that were
	// never registered.
	ErrUnknownProvider = errors.New("provider is not registered")

	// ErrHostUnavailable is returned by Initialize and InitializeProvider when
	// no host dispatch table is attached to the registry.
	ErrHostUnavailable = errors.New("host dispatch table is not available")
)
