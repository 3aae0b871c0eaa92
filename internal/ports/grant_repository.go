package ports

import (
	"context"

	"github.com/bnema/shelf/internal/domain"
)

type GrantRepository interface {
	Grant(ctx context.Context, grant domain.PermissionGrant) error
	HasGrant(ctx context.Context, user domain.UserID) (bool, error)
	ListGrants(ctx context.Context) ([]domain.PermissionGrant, error)
}
