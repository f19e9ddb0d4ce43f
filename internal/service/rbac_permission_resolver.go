package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
)

var ErrMissingClaims = errors.New("missing claims")

// CachedPermissionResolver resolves a principal's permission tokens through
// its role. Concurrent misses for the same session share one lookup.
type CachedPermissionResolver struct {
	cacheStore RBACPermissionCacheStore
	userSvc    UserServiceInterface
	ttl        time.Duration
	sf         singleflight.Group
}

func NewCachedPermissionResolver(cacheStore RBACPermissionCacheStore, userSvc UserServiceInterface, ttl time.Duration) *CachedPermissionResolver {
	return &CachedPermissionResolver{
		cacheStore: cacheStore,
		userSvc:    userSvc,
		ttl:        ttl,
	}
}

func (r *CachedPermissionResolver) ResolvePermissions(ctx context.Context, claims *security.Claims) ([]string, error) {
	if claims == nil {
		return nil, ErrMissingClaims
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	sessionTokenID := strings.TrimSpace(claims.ID)
	if sessionTokenID == "" {
		sessionTokenID = "none"
	}
	if perms, ok := r.cached(ctx, userID, sessionTokenID); ok {
		observability.RecordRBACPermissionCacheEvent(ctx, "hit")
		return perms, nil
	}
	observability.RecordRBACPermissionCacheEvent(ctx, "miss")

	sfKey := fmt.Sprintf("rbacperm:user:%d:session:%s", userID, sessionTokenID)
	result, err, shared := r.sf.Do(sfKey, func() (any, error) {
		if perms, ok := r.cached(ctx, userID, sessionTokenID); ok {
			return perms, nil
		}
		_, perms, err := r.userSvc.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if r.cacheStore != nil && r.ttl > 0 {
			_ = r.cacheStore.Set(ctx, userID, sessionTokenID, perms, r.ttl)
		}
		return perms, nil
	})
	if shared {
		observability.RecordRBACPermissionCacheEvent(ctx, "singleflight_shared")
	} else {
		observability.RecordRBACPermissionCacheEvent(ctx, "singleflight_leader")
	}
	if err != nil {
		return nil, err
	}
	perms, ok := result.([]string)
	if !ok {
		return nil, fmt.Errorf("invalid permission result type")
	}
	return perms, nil
}

func (r *CachedPermissionResolver) cached(ctx context.Context, userID uint, sessionTokenID string) ([]string, bool) {
	if r.cacheStore == nil || r.ttl <= 0 {
		return nil, false
	}
	perms, ok, err := r.cacheStore.Get(ctx, userID, sessionTokenID)
	if err != nil || !ok {
		return nil, false
	}
	return perms, true
}

func buildRBACPermissionCacheKey(globalEpoch, userEpoch uint64, userID uint, sessionTokenID string) string {
	if sessionTokenID == "" {
		sessionTokenID = "none"
	}
	return fmt.Sprintf("rbacperm:g%d:u%d:user:%d:s:%s", globalEpoch, userEpoch, userID, sessionTokenID)
}
