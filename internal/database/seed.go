package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"

	"gorm.io/gorm"
)

var defaultPermissions = []domain.Permission{
	{Resource: "users", Action: "administer"},
	{Resource: "users", Action: "read"},
	{Resource: "filters", Action: "administer"},
	{Resource: "reports", Action: "administer"},
}

// rolePermissions maps each seeded role to the permission tokens it holds.
var rolePermissions = map[string][]string{
	domain.RoleAdmin: {"users:administer", "users:read", "filters:administer", "reports:administer"},
	domain.RoleUser:  {"users:read"},
}

type RBACSyncReport struct {
	CreatedPermissions int  `json:"created_permissions"`
	CreatedRoles       int  `json:"created_roles"`
	BoundPermissions   int  `json:"bound_permissions"`
	UnboundPermissions int  `json:"unbound_permissions"`
	CreatedAdmin       bool `json:"created_admin"`
	PromotedAdmin      bool `json:"promoted_admin"`
	PromotedUserID     uint `json:"promoted_user_id,omitempty"`
	Noop               bool `json:"noop"`
}

// GrantsChanged reports whether any role gained or lost a permission.
func (r *RBACSyncReport) GrantsChanged() bool {
	return r.BoundPermissions > 0 || r.UnboundPermissions > 0
}

func Seed(db *gorm.DB, bootstrapAdminEmail, bootstrapAdminPassword string) error {
	_, err := SeedSync(db, bootstrapAdminEmail, bootstrapAdminPassword)
	return err
}

// SeedSync makes permissions, roles and the bootstrap admin match the
// defaults. It is idempotent; a second run reports Noop.
func SeedSync(db *gorm.DB, bootstrapAdminEmail, bootstrapAdminPassword string) (*RBACSyncReport, error) {
	ctx := context.Background()
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(ctx, "seed", time.Since(start))
	}()

	report, err := seedSync(db, bootstrapAdminEmail, bootstrapAdminPassword)
	if err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "seed", "error")
		return nil, err
	}
	observability.RecordDatabaseStartupEvent(ctx, "seed", "success")
	return report, nil
}

func seedSync(db *gorm.DB, email, password string) (*RBACSyncReport, error) {
	report := &RBACSyncReport{}

	byToken := make(map[string]domain.Permission, len(defaultPermissions))
	for _, p := range defaultPermissions {
		res := db.Where("resource = ? AND action = ?", p.Resource, p.Action).FirstOrCreate(&p)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedPermissions++
		}
		byToken[p.Token()] = p
	}

	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		role := domain.Role{Name: name, Description: roleDescription(name)}
		res := db.Where("name = ?", name).FirstOrCreate(&role)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedRoles++
		}

		var before domain.Role
		if err := db.Preload("Permissions").Where("id = ?", role.ID).First(&before).Error; err != nil {
			return nil, err
		}
		have := make(map[uint]struct{}, len(before.Permissions))
		for _, p := range before.Permissions {
			have[p.ID] = struct{}{}
		}
		want := make([]domain.Permission, 0, len(rolePermissions[name]))
		for _, token := range rolePermissions[name] {
			want = append(want, byToken[token])
		}
		if err := db.Model(&role).Association("Permissions").Replace(&want); err != nil {
			return nil, fmt.Errorf("bind %s permissions: %w", name, err)
		}
		for _, p := range want {
			if _, ok := have[p.ID]; ok {
				delete(have, p.ID)
				continue
			}
			report.BoundPermissions++
		}
		report.UnboundPermissions += len(have)
	}

	if err := seedBootstrapAdmin(db, email, password, report); err != nil {
		return nil, err
	}

	report.Noop = report.CreatedPermissions == 0 && report.CreatedRoles == 0 &&
		!report.GrantsChanged() && !report.CreatedAdmin && !report.PromotedAdmin
	return report, nil
}

// seedBootstrapAdmin creates the admin account when a password is given, or
// promotes an existing account with that email.
func seedBootstrapAdmin(db *gorm.DB, email, password string, report *RBACSyncReport) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil
	}
	var u domain.User
	err := db.Where("email = ?", email).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if password == "" {
			return nil
		}
		hash, err := security.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash bootstrap admin password: %w", err)
		}
		u = domain.User{Email: email, Role: domain.RoleAdmin, PasswordHash: hash}
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("create bootstrap admin: %w", err)
		}
		report.CreatedAdmin = true
	case err != nil:
		return err
	case u.Role != domain.RoleAdmin:
		if err := db.Model(&u).Update("role", domain.RoleAdmin).Error; err != nil {
			return fmt.Errorf("promote bootstrap admin: %w", err)
		}
		report.PromotedAdmin = true
		report.PromotedUserID = u.ID
	}
	return nil
}

func roleDescription(name string) string {
	if name == domain.RoleAdmin {
		return "Administrator role"
	}
	return "Default user role"
}

type DemoReport struct {
	Users   int `json:"users"`
	Filters int `json:"filters"`
	Reports int `json:"reports"`
}

var demoFilterTypes = []string{"segment", "behavioural", "geo"}

// SeedDemo creates `users` sample accounts, each authoring one filter and one
// report, so the listings have something to page through. Rows that already
// exist are left alone.
func SeedDemo(db *gorm.DB, users int) (*DemoReport, error) {
	if users <= 0 {
		return nil, fmt.Errorf("demo user count must be > 0")
	}
	report := &DemoReport{}
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 1; i <= users; i++ {
			seen := base.Add(time.Duration(i) * time.Hour)
			u := domain.User{
				Email:           fmt.Sprintf("demo%03d@example.com", i),
				Role:            domain.RoleUser,
				LastSeen:        &seen,
				SignInCount:     i % 7,
				CurrentSignInIP: fmt.Sprintf("10.0.%d.%d", i/250, i%250+1),
			}
			res := tx.Where("email = ?", u.Email).FirstOrCreate(&u)
			if res.Error != nil {
				return res.Error
			}
			report.Users += int(res.RowsAffected)

			f := domain.Filter{
				Title:        fmt.Sprintf("Demo filter %03d", i),
				Description:  "Sample audience filter",
				FilterType:   demoFilterTypes[i%len(demoFilterTypes)],
				CdmUserCount: int64(i * 13 % 997),
				UserID:       u.ID,
			}
			res = tx.Where("title = ?", f.Title).FirstOrCreate(&f)
			if res.Error != nil {
				return res.Error
			}
			report.Filters += int(res.RowsAffected)

			r := domain.Report{
				Title:       fmt.Sprintf("Demo report %03d", i),
				Description: "Sample report",
				UserID:      u.ID,
			}
			res = tx.Where("title = ?", r.Title).FirstOrCreate(&r)
			if res.Error != nil {
				return res.Error
			}
			report.Reports += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
