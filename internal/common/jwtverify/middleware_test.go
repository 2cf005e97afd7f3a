package jwtverify

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	commonerrors "github.com/brand-registry/backend/internal/common/errors"
	"github.com/brand-registry/backend/internal/common/logger"
	userdomain "github.com/brand-registry/backend/internal/user/domain"
)

type authFunc func(ctx context.Context, token string) (userdomain.User, error)

func (f authFunc) Authenticate(ctx context.Context, token string) (userdomain.User, error) {
	return f(ctx, token)
}

func newProtected(auth Authenticator) (http.Handler, *userdomain.User) {
	var seen userdomain.User
	log := logger.NewWriter(&bytes.Buffer{}, "test", "DEBUG")
	h := Middleware(auth, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &seen
}

func TestMiddleware_Success(t *testing.T) {
	h, seen := newProtected(authFunc(func(ctx context.Context, token string) (userdomain.User, error) {
		assert.Equal(t, "tok", token)
		return userdomain.User{ID: 5, Username: "alice"}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(5), seen.ID)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	called := false
	h, _ := newProtected(authFunc(func(ctx context.Context, token string) (userdomain.User, error) {
		called = true
		return userdomain.User{}, nil
	}))

	for _, header := range []string{"", "tok", "Basic abc", "Bearer ", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
	assert.False(t, called)
}

func TestMiddleware_AuthenticatorError(t *testing.T) {
	h, _ := newProtected(authFunc(func(ctx context.Context, token string) (userdomain.User, error) {
		return userdomain.User{}, commonerrors.ErrTokenExpired
	}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "bearer expired")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}
