package service

import (
	"context"
	"net/url"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/listing"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password, ip string) (*LoginResult, error)
}

type UserServiceInterface interface {
	GetByID(ctx context.Context, id uint) (*domain.User, []string, error)
}

type RBACAuthorizer interface {
	HasPermission(permissions []string, required string) bool
}

type PermissionResolver interface {
	ResolvePermissions(ctx context.Context, claims *security.Claims) ([]string, error)
}

// AbilityAuthorizer answers "may this principal perform action on resource".
type AbilityAuthorizer interface {
	Authorize(ctx context.Context, claims *security.Claims, action, resource string) error
}

type DashboardServiceInterface interface {
	Definitions() []*listing.Definition
	Build(ctx context.Context, name string, values url.Values) (any, error)
}
