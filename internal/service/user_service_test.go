package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
	repogomock "github.com/sandeepkv93/admin-listing-dashboards/internal/repository/gomock"
	"go.uber.org/mock/gomock"
)

func TestUserServiceGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := repogomock.NewMockUserRepository(ctrl)
		roles := repogomock.NewMockRoleRepository(ctrl)
		expected := errors.New("db down")
		users.EXPECT().FindByID(gomock.Any(), uint(1)).Return(nil, expected)
		roles.EXPECT().FindByName(gomock.Any(), gomock.Any()).Times(0)
		svc := NewUserService(users, roles, NewRBACService())

		u, perms, err := svc.GetByID(ctx, 1)
		if !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
		if u != nil || perms != nil {
			t.Fatal("expected nil user and perms on error")
		}
	})

	t.Run("success derives role permissions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := repogomock.NewMockUserRepository(ctrl)
		roles := repogomock.NewMockRoleRepository(ctrl)
		users.EXPECT().FindByID(gomock.Any(), uint(7)).Return(&domain.User{ID: 7, Email: "admin@example.com", Role: domain.RoleAdmin}, nil)
		roles.EXPECT().FindByName(gomock.Any(), domain.RoleAdmin).Return(&domain.Role{
			Name: domain.RoleAdmin,
			Permissions: []domain.Permission{
				{Resource: "users", Action: "administer"},
				{Resource: "reports", Action: "administer"},
				{Resource: "filters", Action: "administer"},
			},
		}, nil)
		svc := NewUserService(users, roles, NewRBACService())

		u, perms, err := svc.GetByID(ctx, 7)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if u == nil || u.ID != 7 {
			t.Fatalf("unexpected user: %+v", u)
		}
		assertPermissionSet(t, perms, []string{"users:administer", "reports:administer", "filters:administer"})
	})

	t.Run("unknown role grants nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := repogomock.NewMockUserRepository(ctrl)
		roles := repogomock.NewMockRoleRepository(ctrl)
		users.EXPECT().FindByID(gomock.Any(), uint(3)).Return(&domain.User{ID: 3, Role: "ghost"}, nil)
		roles.EXPECT().FindByName(gomock.Any(), "ghost").Return(nil, repository.ErrRoleNotFound)
		svc := NewUserService(users, roles, NewRBACService())

		_, perms, err := svc.GetByID(ctx, 3)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if perms == nil || len(perms) != 0 {
			t.Fatalf("expected no permissions, got %v", perms)
		}
	})

	t.Run("role lookup error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := repogomock.NewMockUserRepository(ctrl)
		roles := repogomock.NewMockRoleRepository(ctrl)
		expected := errors.New("roles table locked")
		users.EXPECT().FindByID(gomock.Any(), uint(4)).Return(&domain.User{ID: 4, Role: domain.RoleUser}, nil)
		roles.EXPECT().FindByName(gomock.Any(), domain.RoleUser).Return(nil, expected)
		svc := NewUserService(users, roles, NewRBACService())

		if _, _, err := svc.GetByID(ctx, 4); !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
	})
}

func assertPermissionSet(t *testing.T, got []string, expected []string) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("expected %d permissions, got %d (%v)", len(expected), len(got), got)
	}
	set := make(map[string]struct{}, len(got))
	for _, p := range got {
		set[p] = struct{}{}
	}
	for _, want := range expected {
		if _, ok := set[want]; !ok {
			t.Fatalf("missing permission %q in %v", want, got)
		}
	}
}
