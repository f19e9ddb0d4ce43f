package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
)

var ErrForbidden = errors.New("forbidden")

type Authorizer struct {
	resolver PermissionResolver
	rbac     RBACAuthorizer
}

func NewAuthorizer(resolver PermissionResolver, rbac RBACAuthorizer) *Authorizer {
	return &Authorizer{resolver: resolver, rbac: rbac}
}

// Authorize returns nil when the principal holds resource:action, ErrForbidden
// when it does not, and any other error when permissions cannot be resolved.
func (a *Authorizer) Authorize(ctx context.Context, claims *security.Claims, action, resource string) error {
	perms, err := a.resolver.ResolvePermissions(ctx, claims)
	if err != nil {
		observability.RecordAuthorizationDecision(ctx, resource, action, "error")
		return fmt.Errorf("resolve permissions: %w", err)
	}
	if !a.rbac.HasPermission(perms, PermissionToken(resource, action)) {
		observability.RecordAuthorizationDecision(ctx, resource, action, "deny")
		return ErrForbidden
	}
	observability.RecordAuthorizationDecision(ctx, resource, action, "allow")
	return nil
}
