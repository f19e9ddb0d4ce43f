package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRBACPermissionCacheStore invalidates by bumping epoch counters rather
// than scanning keys; stale entries age out through their TTL.
type RedisRBACPermissionCacheStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRBACPermissionCacheStore(client redis.UniversalClient, prefix string) *RedisRBACPermissionCacheStore {
	if prefix == "" {
		prefix = "rbac_permission_cache"
	}
	return &RedisRBACPermissionCacheStore{client: client, prefix: prefix}
}

func (s *RedisRBACPermissionCacheStore) Get(ctx context.Context, userID uint, sessionTokenID string) ([]string, bool, error) {
	if s.client == nil {
		return nil, false, nil
	}
	key, err := s.dataKey(ctx, userID, sessionTokenID)
	if err != nil {
		return nil, false, err
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, false, fmt.Errorf("decode cached permissions: %w", err)
	}
	return perms, true, nil
}

func (s *RedisRBACPermissionCacheStore) Set(ctx context.Context, userID uint, sessionTokenID string, permissions []string, ttl time.Duration) error {
	if s.client == nil || ttl <= 0 {
		return nil
	}
	key, err := s.dataKey(ctx, userID, sessionTokenID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(permissions)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, payload, ttl).Err()
}

func (s *RedisRBACPermissionCacheStore) InvalidateUser(ctx context.Context, userID uint) error {
	if s.client == nil {
		return nil
	}
	return s.client.Incr(ctx, s.userEpochKey(userID)).Err()
}

func (s *RedisRBACPermissionCacheStore) InvalidateAll(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Incr(ctx, s.globalEpochKey()).Err()
}

func (s *RedisRBACPermissionCacheStore) dataKey(ctx context.Context, userID uint, sessionTokenID string) (string, error) {
	vals, err := s.client.MGet(ctx, s.globalEpochKey(), s.userEpochKey(userID)).Result()
	if err != nil {
		return "", err
	}
	global, user := parseEpoch(vals[0]), parseEpoch(vals[1])
	return s.prefix + ":" + buildRBACPermissionCacheKey(global, user, userID, sessionTokenID), nil
}

func (s *RedisRBACPermissionCacheStore) globalEpochKey() string {
	return s.prefix + ":epoch:global"
}

func (s *RedisRBACPermissionCacheStore) userEpochKey(userID uint) string {
	return fmt.Sprintf("%s:epoch:user:%d", s.prefix, userID)
}

func parseEpoch(v any) uint64 {
	str, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
