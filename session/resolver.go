package session

import (
	"context"
	"errors"

	"github.com/M7HZ/bright-clinic/models"
)

// ErrRoleNotFound is returned when an identity has no role row. Routing
// treats this as unauthenticated rather than an error.
var ErrRoleNotFound = errors.New("role not found for identity")

// RoleResolver fetches the single role row for an identity. The
// controller issues exactly one resolution per session establishment.
type RoleResolver interface {
	ResolveRole(ctx context.Context, identityID string) (models.AppRole, error)
}

// RoleResolverFunc adapts a function to the RoleResolver interface.
type RoleResolverFunc func(ctx context.Context, identityID string) (models.AppRole, error)

func (f RoleResolverFunc) ResolveRole(ctx context.Context, identityID string) (models.AppRole, error) {
	return f(ctx, identityID)
}
