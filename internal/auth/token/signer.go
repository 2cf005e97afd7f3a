// Package token signs and verifies the HMAC access tokens handed out at login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brand-registry/backend/internal/common/clock"
	commoncrypto "github.com/brand-registry/backend/internal/common/crypto"
	commonerrors "github.com/brand-registry/backend/internal/common/errors"
	"github.com/brand-registry/backend/internal/observability/metrics"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

var signingMethods = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

type Claims struct {
	Subject   string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Signer struct {
	secret      []byte
	method      jwt.SigningMethod
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
}

func NewSigner(secret, algorithm string, idGenerator commoncrypto.IDGenerator, clk clock.Clock) (*Signer, error) {
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Signer{
		secret:      []byte(secret),
		method:      method,
		idGenerator: idGenerator,
		clock:       clk,
	}, nil
}

// Sign issues a token for subject that expires ttl from now. A non-positive
// ttl yields a token that is already expired.
func (s *Signer) Sign(subject string, ttl time.Duration) (string, error) {
	jti, err := s.idGenerator.NewID()
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	metrics.AccessTokensIssued.Inc()
	return signed, nil
}

// Verify checks signature and expiry. Failures map onto INVALID_SIGNATURE,
// TOKEN_EXPIRED or INVALID_TOKEN.
func (s *Signer) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&rc,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != s.method.Alg() {
				return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, s.classify(err)
	}

	if rc.Subject == "" {
		metrics.JWTValidationsFailed.WithLabelValues("missing_subject").Inc()
		return Claims{}, commonerrors.ErrInvalidToken.WithDetails(map[string]any{"reason": "missing subject"})
	}

	claims := Claims{
		Subject:   rc.Subject,
		ID:        rc.ID,
		ExpiresAt: rc.ExpiresAt.Time,
	}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	return claims, nil
}

func (s *Signer) classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		metrics.JWTValidationsFailed.WithLabelValues("expired").Inc()
		return commonerrors.ErrTokenExpired.WithCause(err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		metrics.JWTValidationsFailed.WithLabelValues("signature").Inc()
		return commonerrors.ErrInvalidSignature.WithCause(err)
	default:
		metrics.JWTValidationsFailed.WithLabelValues("invalid").Inc()
		return commonerrors.ErrInvalidToken.WithCause(err)
	}
}
