package service

import (
	"slices"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
)

const (
	ActionAdminister = "administer"
	ActionRead       = "read"
)

type RBACService struct{}

func NewRBACService() *RBACService { return &RBACService{} }

func PermissionToken(resource, action string) string { return resource + ":" + action }

// PermissionsFromRole returns the sorted, deduplicated permission tokens of
// a role. A nil role grants nothing.
func (s *RBACService) PermissionsFromRole(role *domain.Role) []string {
	out := []string{}
	if role == nil {
		return out
	}
	for _, p := range role.Permissions {
		token := p.Token()
		if !slices.Contains(out, token) {
			out = append(out, token)
		}
	}
	slices.Sort(out)
	return out
}

func (s *RBACService) HasPermission(permissions []string, required string) bool {
	return slices.Contains(permissions, required)
}
