package policy

import (
	"context"

	"github.com/kwo0two/rentmanagerpro/internal/gate"
)

// Ownable is an interface for resources that have an owner.
// Implement this on models to enable ownership-based authorization.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy is a generic policy that checks if the user owns the
// resource. Works with any model that implements the Ownable interface.
type OwnershipPolicy struct{}

// NewOwnershipPolicy creates a new ownership policy.
func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can checks if the user owns the resource. For list/create actions
// (resource is nil) it returns true; the query scoping on user_id already
// limits what those can touch.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		// A resource without ownership info is denied rather than leaked.
		return false
	}
	return ownable.GetUserID() == userID
}
