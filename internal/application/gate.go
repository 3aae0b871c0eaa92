package application

import (
	"context"
	"fmt"

	"github.com/bnema/shelf/internal/domain"
	"github.com/bnema/shelf/internal/ports"
)

// Gate is the single authorization predicate shared by every command
// handler.
type Gate interface {
	Require(ctx context.Context, user domain.UserID) error
}

type GateFunc func(ctx context.Context, user domain.UserID) error

func (f GateFunc) Require(ctx context.Context, user domain.UserID) error {
	return f(ctx, user)
}

type grantGate struct {
	grants ports.GrantRepository
}

// NewGrantGate authorizes users that hold a permission grant.
func NewGrantGate(grants ports.GrantRepository) Gate {
	return grantGate{grants: grants}
}

func (g grantGate) Require(ctx context.Context, user domain.UserID) error {
	ok, err := g.grants.HasGrant(ctx, user)
	if err != nil {
		return fmt.Errorf("check grant: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, user)
	}

	return nil
}
