package service

import (
	"context"
	"slices"
	"sync"
	"time"
)

// RBACPermissionCacheStore caches resolved permissions per user and access
// token id. It never holds listing results.
type RBACPermissionCacheStore interface {
	Get(ctx context.Context, userID uint, sessionTokenID string) ([]string, bool, error)
	Set(ctx context.Context, userID uint, sessionTokenID string, permissions []string, ttl time.Duration) error
	InvalidateUser(ctx context.Context, userID uint) error
	InvalidateAll(ctx context.Context) error
}

type NoopRBACPermissionCacheStore struct{}

func NewNoopRBACPermissionCacheStore() *NoopRBACPermissionCacheStore {
	return &NoopRBACPermissionCacheStore{}
}

func (s *NoopRBACPermissionCacheStore) Get(context.Context, uint, string) ([]string, bool, error) {
	return nil, false, nil
}

func (s *NoopRBACPermissionCacheStore) Set(context.Context, uint, string, []string, time.Duration) error {
	return nil
}

func (s *NoopRBACPermissionCacheStore) InvalidateUser(context.Context, uint) error { return nil }

func (s *NoopRBACPermissionCacheStore) InvalidateAll(context.Context) error { return nil }

type permissionCacheEntry struct {
	permissions []string
	expiresAt   time.Time
}

type InMemoryRBACPermissionCacheStore struct {
	mu    sync.RWMutex
	store map[uint]map[string]permissionCacheEntry
	now   func() time.Time
}

func NewInMemoryRBACPermissionCacheStore() *InMemoryRBACPermissionCacheStore {
	return &InMemoryRBACPermissionCacheStore{
		store: make(map[uint]map[string]permissionCacheEntry),
		now:   time.Now,
	}
}

func (s *InMemoryRBACPermissionCacheStore) Get(_ context.Context, userID uint, sessionTokenID string) ([]string, bool, error) {
	s.mu.RLock()
	entry, ok := s.store[userID][sessionTokenID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		if sessions, ok := s.store[userID]; ok {
			delete(sessions, sessionTokenID)
			if len(sessions) == 0 {
				delete(s.store, userID)
			}
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return slices.Clone(entry.permissions), true, nil
}

func (s *InMemoryRBACPermissionCacheStore) Set(_ context.Context, userID uint, sessionTokenID string, permissions []string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, ok := s.store[userID]
	if !ok {
		sessions = make(map[string]permissionCacheEntry)
		s.store[userID] = sessions
	}
	sessions[sessionTokenID] = permissionCacheEntry{
		permissions: slices.Clone(permissions),
		expiresAt:   s.now().Add(ttl),
	}
	return nil
}

func (s *InMemoryRBACPermissionCacheStore) InvalidateUser(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, userID)
	return nil
}

func (s *InMemoryRBACPermissionCacheStore) InvalidateAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = make(map[uint]map[string]permissionCacheEntry)
	return nil
}
