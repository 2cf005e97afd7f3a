package jwtverify

import (
	"context"
	"net/http"
	"strings"

	"github.com/brand-registry/backend/internal/common/constants"
	commonerrors "github.com/brand-registry/backend/internal/common/errors"
	commonhttp "github.com/brand-registry/backend/internal/common/http"
	"github.com/brand-registry/backend/internal/common/logger"
	userdomain "github.com/brand-registry/backend/internal/user/domain"
)

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (userdomain.User, error)
}

type contextKey struct{}

// Middleware requires a bearer token and stores the resolved user in the
// request context. Failures are rendered as 401 with a Bearer challenge.
func Middleware(auth Authenticator, log *logger.Logger) func(next http.Handler) http.Handler {
	errorHandler := commonhttp.NewErrorHandler(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_missing_authorization",
				}).Debug("missing or malformed authorization header")
				errorHandler.HandleError(w, r, commonerrors.ErrUnauthenticated)
				return
			}

			user, err := auth.Authenticate(r.Context(), tokenString)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_auth_failed",
				}).Warnf("jwt auth failed: %v", err)
				errorHandler.HandleError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get(constants.AuthorizationHeader))
	scheme, token, found := strings.Cut(raw, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerChallenge) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func FromContext(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(contextKey{}).(userdomain.User)
	return user, ok
}

// WithUser is used by tests that exercise handlers behind the middleware.
func WithUser(ctx context.Context, user userdomain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}
