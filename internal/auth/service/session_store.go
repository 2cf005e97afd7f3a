package service

import (
	"context"
	"fmt"

	authdomain "github.com/brand-registry/backend/internal/auth/domain"
	authrepo "github.com/brand-registry/backend/internal/auth/repository"
	commoncrypto "github.com/brand-registry/backend/internal/common/crypto"
	"github.com/brand-registry/backend/internal/observability/metrics"
)

// SessionStore issues and revokes refresh-token records. The refresh string
// is stored as issued and never redeemed.
type SessionStore struct {
	repo   authrepo.RefreshTokenRepository
	tokens commoncrypto.TokenGenerator
}

func NewSessionStore(repo authrepo.RefreshTokenRepository, tokens commoncrypto.TokenGenerator) *SessionStore {
	return &SessionStore{repo: repo, tokens: tokens}
}

func (s *SessionStore) Create(ctx context.Context, userID int64, accessToken string) (string, error) {
	refresh, err := s.tokens.NewToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if _, err := s.repo.Create(ctx, authdomain.RefreshToken{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refresh,
	}); err != nil {
		return "", err
	}

	metrics.RefreshTokensIssued.Inc()
	return refresh, nil
}

// RevokeAll deletes every session of the user. Zero rows is not an error.
func (s *SessionStore) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	metrics.RefreshTokensRevoked.Add(float64(n))
	return n, nil
}

func (s *SessionStore) Count(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountByUserID(ctx, userID)
}
