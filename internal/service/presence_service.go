package service

import (
	"context"
	"time"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
)

// PresenceService keeps users.last_seen current for authenticated traffic,
// writing at most once per interval per user.
type PresenceService struct {
	userRepo repository.UserRepository
	interval time.Duration
	now      func() time.Time
}

func NewPresenceService(userRepo repository.UserRepository, interval time.Duration) *PresenceService {
	return &PresenceService{userRepo: userRepo, interval: interval, now: time.Now}
}

func (s *PresenceService) TouchLastSeen(ctx context.Context, userID uint) error {
	_, err := s.userRepo.TouchLastSeen(ctx, userID, s.now().UTC(), s.interval)
	return err
}
