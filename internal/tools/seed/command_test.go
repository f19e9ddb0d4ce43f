package seed

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/config"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/database"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
	repogomock "github.com/sandeepkv93/admin-listing-dashboards/internal/repository/gomock"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/service"
)

func openMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestApplyAction(t *testing.T) {
	db := openMigratedDB(t)

	details, err := applyAction(context.Background(), db, "Admin@Example.com", "correct-horse-battery", nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if details[len(details)-1] != "created bootstrap admin: admin@example.com" {
		t.Fatalf("unexpected details: %v", details)
	}

	details, err = applyAction(context.Background(), db, "admin@example.com", "correct-horse-battery", nil)
	if err != nil {
		t.Fatalf("apply again: %v", err)
	}
	if details[len(details)-1] != "nothing to do" {
		t.Fatalf("expected noop on second apply, got %v", details)
	}
}

func newRedisPermissionCache(t *testing.T) *service.RedisRBACPermissionCacheStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cfg := &config.Config{RedisKeyPrefix: "ald"}
	return service.NewRedisRBACPermissionCacheStore(client, cfg.RedisKey("rbac_permission_cache"))
}

func cached(t *testing.T, cache service.RBACPermissionCacheStore, userID uint) bool {
	t.Helper()
	_, ok, err := cache.Get(context.Background(), userID, "jti")
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	return ok
}

func TestApplyActionInvalidatesAllWhenGrantsChange(t *testing.T) {
	ctx := context.Background()
	db := openMigratedDB(t)
	cache := newRedisPermissionCache(t)
	if err := cache.Set(ctx, 1, "jti", []string{"users:administer"}, time.Minute); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	details, err := applyAction(ctx, db, "", "", cache)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if details[len(details)-1] != "invalidated permission cache: all users" {
		t.Fatalf("unexpected details: %v", details)
	}
	if cached(t, cache, 1) {
		t.Fatal("expected stale permissions to be dropped")
	}

	if err := cache.Set(ctx, 1, "jti", []string{"users:read"}, time.Minute); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if _, err := applyAction(ctx, db, "", "", cache); err != nil {
		t.Fatalf("reapply: %v", err)
	}
	if !cached(t, cache, 1) {
		t.Fatal("a noop apply must leave the cache alone")
	}
}

func TestApplyActionInvalidatesPromotedUser(t *testing.T) {
	ctx := context.Background()
	db := openMigratedDB(t)
	if _, err := applyAction(ctx, db, "", "", nil); err != nil {
		t.Fatalf("initial apply: %v", err)
	}
	ops := domain.User{Email: "ops@example.com", Role: domain.RoleUser}
	if err := db.Create(&ops).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	cache := newRedisPermissionCache(t)
	for _, id := range []uint{ops.ID, ops.ID + 100} {
		if err := cache.Set(ctx, id, "jti", []string{"users:read"}, time.Minute); err != nil {
			t.Fatalf("prime cache: %v", err)
		}
	}

	details, err := applyAction(ctx, db, "ops@example.com", "", cache)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if want := fmt.Sprintf("invalidated permission cache: user %d", ops.ID); details[len(details)-1] != want {
		t.Fatalf("unexpected details: %v", details)
	}
	if cached(t, cache, ops.ID) {
		t.Fatal("expected promoted user's permissions to be dropped")
	}
	if !cached(t, cache, ops.ID+100) {
		t.Fatal("expected other users to stay cached")
	}
}

func TestPermissionCacheOnlyForSharedRedis(t *testing.T) {
	for _, cfg := range []*config.Config{
		{RedisEnabled: false, RBACPermissionCacheTTL: time.Minute},
		{RedisEnabled: true, RedisAddr: "localhost:6379", RBACPermissionCacheTTL: 0},
	} {
		cache, closeFn := permissionCache(cfg)
		closeFn()
		if cache != nil {
			t.Fatalf("expected no shared cache for %+v", cfg)
		}
	}

	cache, closeFn := permissionCache(&config.Config{RedisEnabled: true, RedisAddr: "localhost:6379", RBACPermissionCacheTTL: time.Minute})
	defer closeFn()
	if _, ok := cache.(*service.RedisRBACPermissionCacheStore); !ok {
		t.Fatalf("expected redis store, got %T", cache)
	}
}

func TestDemoAction(t *testing.T) {
	db := openMigratedDB(t)
	details, err := demoAction(db, 3)
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	want := []string{"created users: 3", "created filters: 3", "created reports: 3"}
	for i := range want {
		if details[i] != want[i] {
			t.Fatalf("unexpected details: %v", details)
		}
	}
}

func tokenConfig() *config.Config {
	return &config.Config{
		JWTIssuer:       "iss",
		JWTAudience:     "aud",
		JWTAccessSecret: "abcdefghijklmnopqrstuvwxyz123456",
		JWTAccessTTL:    15 * time.Minute,
	}
}

func TestTokenActionIssuesVerifiableToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := repogomock.NewMockUserRepository(ctrl)
	users.EXPECT().FindByEmail(gomock.Any(), "ops@example.com").
		Return(&domain.User{ID: 42, Email: "ops@example.com", Role: domain.RoleAdmin}, nil)

	cfg := tokenConfig()
	details, err := tokenAction(context.Background(), cfg, users, " OPS@example.com ")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	raw := strings.TrimPrefix(details[0], "token: ")
	claims, err := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTAccessTTL).ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if id, _ := claims.UserID(); id != 42 || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenActionErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := repogomock.NewMockUserRepository(ctrl)
	if _, err := tokenAction(context.Background(), tokenConfig(), users, "  "); err == nil {
		t.Fatal("expected missing email error")
	}

	users.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, repository.ErrUserNotFound)
	if _, err := tokenAction(context.Background(), tokenConfig(), users, "ghost@example.com"); err == nil {
		t.Fatal("expected not found error")
	}
}
