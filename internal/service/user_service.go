package service

import (
	"context"
	"errors"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	rbac     *RBACService
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, rbac *RBACService) *UserService {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo, rbac: rbac}
}

// GetByID loads the user and the permission tokens its role grants. A role
// name with no matching row grants nothing.
func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, []string, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	role, err := s.roleRepo.FindByName(ctx, u.Role)
	if errors.Is(err, repository.ErrRoleNotFound) {
		return u, s.rbac.PermissionsFromRole(nil), nil
	}
	if err != nil {
		return nil, nil, err
	}
	return u, s.rbac.PermissionsFromRole(role), nil
}
