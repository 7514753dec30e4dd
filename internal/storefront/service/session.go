package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/marketloft/storefront/internal/storefront/domain"
	"github.com/marketloft/storefront/pkg/jwtx"
	"github.com/marketloft/storefront/pkg/slogx"
)

var (
	ErrRefreshExpired = errors.New("refresh_token_expired")
	ErrInvalidRefresh = errors.New("invalid_refresh_token")
)

// SessionService mints token pairs for authenticated users and
// exchanges refresh tokens for new access tokens.
type SessionService struct {
	Issuer   *jwtx.Issuer
	Verifier *jwtx.Verifier
}

// CreateSession issues a fresh token pair for a user who has just
// proven their identity.
func (s *SessionService) CreateSession(user domain.User) (*domain.TokenPair, error) {
	claims := jwtx.NewClaims(user.ID, user.Email, user.IsAdmin)

	access, err := s.Issuer.IssueAccess(claims)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Issuer.IssueRefresh(claims)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh validates a refresh token and mints a new access token
// carrying the identity embedded in it. The refresh token itself is
// not rotated; it stays valid until its own expiry.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(refreshToken, jwtx.ClassRefresh)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			return "", ErrRefreshExpired
		default:
			l.Info("refresh token rejected", "err", err)
			return "", ErrInvalidRefresh
		}
	}

	access, err := s.Issuer.IssueAccess(*claims)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}
