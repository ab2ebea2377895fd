package gate

import "errors"

var (
	// ErrUnauthorized is returned for a zero-value subject or a policy
	// that denies the action.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoPolicyDefined is returned when the resource type has no
	// registered policy.
	ErrNoPolicyDefined = errors.New("no policy defined for resource")
)
