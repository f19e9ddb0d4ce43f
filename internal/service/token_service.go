package service

import (
	"time"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
)

// TokenService issues access tokens only. Sessions end when the cookie is
// cleared or the token expires.
type TokenService struct {
	jwtMgr    *security.JWTManager
	accessTTL time.Duration
}

func NewTokenService(jwtMgr *security.JWTManager, accessTTL time.Duration) *TokenService {
	return &TokenService{jwtMgr: jwtMgr, accessTTL: accessTTL}
}

func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	access, err := s.jwtMgr.SignAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", time.Time{}, err
	}
	return access, time.Now().Add(s.accessTTL), nil
}
