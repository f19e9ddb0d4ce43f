package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"-"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

type AuthService struct {
	userRepo repository.UserRepository
	tokenSvc *TokenService
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokenSvc *TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokenSvc: tokenSvc, now: time.Now}
}

// Login checks the password and records the sign-in on the trackable
// columns before issuing an access token.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthLogin(ctx, "local", "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		observability.RecordAuthLogin(ctx, "local", "error")
		return nil, err
	}
	if user.PasswordHash == "" {
		observability.RecordAuthLogin(ctx, "local", "invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	ok, err := security.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		observability.RecordAuthLogin(ctx, "local", "error")
		return nil, err
	}
	if !ok {
		observability.RecordAuthLogin(ctx, "local", "invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	s.upgradePasswordHash(ctx, user, password)

	now := s.now().UTC()
	if err := s.userRepo.RecordSignIn(ctx, user.ID, ip, now); err != nil {
		observability.RecordAuthLogin(ctx, "local", "error")
		return nil, err
	}
	user.LastSeen = &now
	user.SignInCount++
	user.LastSignInIP = user.CurrentSignInIP
	user.CurrentSignInIP = ip

	access, expiresAt, err := s.tokenSvc.Issue(user)
	if err != nil {
		observability.RecordAuthLogin(ctx, "local", "error")
		return nil, err
	}
	observability.RecordAuthLogin(ctx, "local", "success")
	return &LoginResult{User: user, AccessToken: access, ExpiresAt: expiresAt}, nil
}

// upgradePasswordHash replaces legacy or outdated hashes after a verified
// login. Failure only costs another upgrade attempt next time.
func (s *AuthService) upgradePasswordHash(ctx context.Context, user *domain.User, password string) {
	if !security.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := security.HashPassword(password)
	if err == nil {
		err = s.userRepo.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		slog.WarnContext(ctx, "password hash upgrade failed", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
}
