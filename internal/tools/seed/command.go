package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/config"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/database"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/service"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/tools/common"
)

type options struct {
	envFile             string
	bootstrapAdminEmail string
	timeout             time.Duration
	ci                  bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.bootstrapAdminEmail, "bootstrap-admin-email", "", "override bootstrap admin email")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDemoCommand(opts), newTokenCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply default roles, permissions and the bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "apply", func(ctx context.Context, cfg *config.Config, db *gorm.DB) ([]string, error) {
				email := cfg.BootstrapAdminEmail
				if opts.bootstrapAdminEmail != "" {
					email = opts.bootstrapAdminEmail
				}
				cache, closeCache := permissionCache(cfg)
				defer closeCache()
				return applyAction(ctx, db, email, cfg.BootstrapAdminPassword, cache)
			})
		},
	}
}

func newDemoCommand(opts *options) *cobra.Command {
	var users int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Create sample users, filters and reports for the dashboards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "demo", func(ctx context.Context, cfg *config.Config, db *gorm.DB) ([]string, error) {
				return demoAction(db.WithContext(ctx), users)
			})
		},
	}
	cmd.Flags().IntVar(&users, "users", 50, "number of demo users, each with one filter and one report")
	return cmd
}

func newTokenCommand(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "token", func(ctx context.Context, cfg *config.Config, db *gorm.DB) ([]string, error) {
				return tokenAction(ctx, cfg, repository.NewUserRepository(db), email)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to issue a token for")
	return cmd
}

func execute(opts *options, command string, action func(context.Context, *config.Config, *gorm.DB) ([]string, error)) error {
	details, err := common.Run(opts.ci, opts.timeout, "seed", command, func(ctx context.Context) ([]string, error) {
		cfg, db, closeFn, err := common.LoadConfigDB(opts.envFile)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		return action(ctx, cfg, db)
	})
	if opts.ci {
		common.PrintCIResult(err == nil, "seed "+command, details, err)
	}
	if err != nil {
		os.Exit(3)
	}
	return nil
}

// applyAction syncs RBAC rows and then drops cached permission sets the sync
// made stale, so a running API picks up revocations before the cache TTL.
func applyAction(ctx context.Context, db *gorm.DB, email, password string, cache service.RBACPermissionCacheStore) ([]string, error) {
	report, err := database.SeedSync(db, email, password)
	if err != nil {
		return nil, err
	}
	details := []string{
		fmt.Sprintf("created permissions: %d", report.CreatedPermissions),
		fmt.Sprintf("created roles: %d", report.CreatedRoles),
		fmt.Sprintf("bound permissions: %d", report.BoundPermissions),
		fmt.Sprintf("unbound permissions: %d", report.UnboundPermissions),
	}
	switch {
	case report.CreatedAdmin:
		details = append(details, "created bootstrap admin: "+strings.ToLower(strings.TrimSpace(email)))
	case report.PromotedAdmin:
		details = append(details, "promoted bootstrap admin: "+strings.ToLower(strings.TrimSpace(email)))
	}
	if report.Noop {
		details = append(details, "nothing to do")
	}

	detail, err := invalidatePermissions(ctx, cache, report)
	if err != nil {
		return details, fmt.Errorf("invalidate permission cache: %w", err)
	}
	if detail != "" {
		details = append(details, detail)
	}
	return details, nil
}

func invalidatePermissions(ctx context.Context, cache service.RBACPermissionCacheStore, report *database.RBACSyncReport) (string, error) {
	if cache == nil || report.Noop {
		return "", nil
	}
	switch {
	case report.GrantsChanged():
		if err := cache.InvalidateAll(ctx); err != nil {
			return "", err
		}
		return "invalidated permission cache: all users", nil
	case report.PromotedAdmin:
		if err := cache.InvalidateUser(ctx, report.PromotedUserID); err != nil {
			return "", err
		}
		return fmt.Sprintf("invalidated permission cache: user %d", report.PromotedUserID), nil
	}
	return "", nil
}

// permissionCache returns the API's shared Redis permission cache. It is nil
// when the API caches in process memory or not at all.
func permissionCache(cfg *config.Config) (service.RBACPermissionCacheStore, func()) {
	if !cfg.RedisEnabled || cfg.RBACPermissionCacheTTL <= 0 {
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := service.NewRedisRBACPermissionCacheStore(client, cfg.RedisKey("rbac_permission_cache"))
	return store, func() { _ = client.Close() }
}

func demoAction(db *gorm.DB, users int) ([]string, error) {
	report, err := database.SeedDemo(db, users)
	if err != nil {
		return nil, err
	}
	return []string{
		fmt.Sprintf("created users: %d", report.Users),
		fmt.Sprintf("created filters: %d", report.Filters),
		fmt.Sprintf("created reports: %d", report.Reports),
	}, nil
}

func tokenAction(ctx context.Context, cfg *config.Config, users repository.UserRepository, email string) ([]string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	u, err := users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTAccessTTL)
	token, expiresAt, err := service.NewTokenService(jwtMgr, cfg.JWTAccessTTL).Issue(u)
	if err != nil {
		return nil, err
	}
	return []string{
		"token: " + token,
		"role: " + u.Role,
		"expires_at: " + expiresAt.UTC().Format(time.RFC3339),
	}, nil
}
