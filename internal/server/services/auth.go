// Package services holds the archive server's business logic: issuing
// access tokens for the archive account and keeping the invoice index in
// step with the PDFs in object storage.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/autobody/internal/server/auth"
	"github.com/dmitrijs2005/autobody/internal/server/config"
)

// AuthService logs the archive account in and verifies its tokens.
type AuthService struct {
	authenticator       *auth.Authenticator
	jwtSecret           []byte
	accessTokenValidity time.Duration
}

func NewAuthService(a *auth.Authenticator, cfg *config.Config) *AuthService {
	return &AuthService{
		authenticator:       a,
		jwtSecret:           []byte(cfg.SecretKey),
		accessTokenValidity: cfg.AccessTokenValidityDuration,
	}
}

// Login checks the credentials and mints an access token.
func (s *AuthService) Login(ctx context.Context, username string, password []byte) (string, time.Time, error) {
	if err := s.authenticator.Check(username, password); err != nil {
		return "", time.Time{}, err
	}
	return auth.GenerateToken(username, s.jwtSecret, s.accessTokenValidity)
}

// Verify returns the username a token was issued to.
func (s *AuthService) Verify(token string) (string, error) {
	return auth.GetUsernameFromToken(token, s.jwtSecret)
}
