package service

import (
	"errors"
	"fmt"

	"tenantkit.dev/api/internal/domain"
	"tenantkit.dev/api/internal/store"
)

// errInsufficientRole matches the guard's denial so callers see one message.
var errInsufficientRole = fmt.Errorf("%w: insufficient permissions", domain.ErrForbidden)

// storeErr translates store sentinels into the domain taxonomy. Unknown
// errors are wrapped unchanged and end up as internal errors.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrStaleRole):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	case errors.Is(err, store.ErrOwnerImmutable), errors.Is(err, store.ErrLastOwner):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidOperation, err)
	case errors.Is(err, store.ErrTimeout):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
