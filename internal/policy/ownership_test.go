package policy

import (
	"context"
	"testing"

	"github.com/kwo0two/rentmanagerpro/internal/gate"
	"github.com/kwo0two/rentmanagerpro/internal/models"
)

func TestOwnershipPolicyAllowsOwner(t *testing.T) {
	p := NewOwnershipPolicy()
	lease := &models.Lease{UserID: 10}

	if !p.Can(context.Background(), 10, gate.ActionView, lease) {
		t.Fatalf("owner should be allowed")
	}
	if p.Can(context.Background(), 11, gate.ActionView, lease) {
		t.Fatalf("non-owner should be denied")
	}
}

func TestOwnershipPolicyNilResource(t *testing.T) {
	p := NewOwnershipPolicy()
	if !p.Can(context.Background(), 10, gate.ActionList, nil) {
		t.Fatalf("list with nil resource should pass to query scoping")
	}
}

func TestOwnershipPolicyUnknownType(t *testing.T) {
	p := NewOwnershipPolicy()
	if p.Can(context.Background(), 10, gate.ActionView, struct{}{}) {
		t.Fatalf("resource without ownership info must be denied")
	}
}

func TestGateWithOwnershipPolicy(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("lease", NewOwnershipPolicy())

	lease := &models.Lease{UserID: 3}
	if !g.Can(context.Background(), 3, gate.ActionUpdate, "lease", lease) {
		t.Fatalf("expected owner allowed through gate")
	}
	if g.Can(context.Background(), 4, gate.ActionUpdate, "lease", lease) {
		t.Fatalf("expected stranger denied through gate")
	}
}
