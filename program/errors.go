package program

import "errors"

// Sentinel errors for the program-table failure kinds named in spec.md
// §7 (DuplicateClassMember, TooManyMethods). Wrapped with %w so callers
// can errors.Is against them regardless of the surrounding context.
var (
	ErrDuplicateClassMember = errors.New("duplicate class member")
	ErrTooManyMethods       = errors.New("too many methods")
)
