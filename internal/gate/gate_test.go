package gate

import (
	"context"
	"errors"
	"testing"
)

func TestGateDeniesZeroSubject(t *testing.T) {
	g := NewGate[uint]()
	g.Register("lease", PolicyFunc[uint](func(context.Context, uint, Action, any) bool { return true }))

	if err := g.Authorize(context.Background(), 0, ActionView, "lease", nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGateNoPolicy(t *testing.T) {
	g := NewGate[uint]()
	if err := g.Authorize(context.Background(), 1, ActionView, "building", nil); !errors.Is(err, ErrNoPolicyDefined) {
		t.Fatalf("expected ErrNoPolicyDefined, got %v", err)
	}
}

func TestGateDelegatesToPolicy(t *testing.T) {
	g := NewGate[uint]()
	g.Register("lease", PolicyFunc[uint](func(_ context.Context, user uint, _ Action, _ any) bool {
		return user == 7
	}))

	if !g.Can(context.Background(), 7, ActionUpdate, "lease", nil) {
		t.Fatalf("expected user 7 to be allowed")
	}
	if g.Can(context.Background(), 8, ActionUpdate, "lease", nil) {
		t.Fatalf("expected user 8 to be denied")
	}
}
