package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/brand-registry/backend/internal/auth/domain"
	"github.com/brand-registry/backend/internal/auth/service"
	"github.com/brand-registry/backend/internal/auth/token"
	"github.com/brand-registry/backend/internal/common/clock"
	commoncrypto "github.com/brand-registry/backend/internal/common/crypto"
	"github.com/brand-registry/backend/internal/common/db"
	commonhttp "github.com/brand-registry/backend/internal/common/http"
	"github.com/brand-registry/backend/internal/common/jwtverify"
	"github.com/brand-registry/backend/internal/common/logger"
	userdomain "github.com/brand-registry/backend/internal/user/domain"
	userrepo "github.com/brand-registry/backend/internal/user/repository"
)

type memoryUsers struct {
	byEmail map[string]userdomain.User
}

func (m *memoryUsers) Create(ctx context.Context, u userdomain.User) (userdomain.User, error) {
	return u, nil
}

func (m *memoryUsers) FindByID(ctx context.Context, id int64) (userdomain.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *memoryUsers) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	for _, u := range m.byEmail {
		if u.Username == username {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *memoryUsers) List(ctx context.Context, skip, limit int) (userdomain.Page, error) {
	return userdomain.Page{}, nil
}

func (m *memoryUsers) Update(ctx context.Context, u userdomain.User) (userdomain.User, error) {
	return u, nil
}

func (m *memoryUsers) Delete(ctx context.Context, id int64) error {
	return nil
}

type memoryRoles struct{}

func (memoryRoles) FindByID(ctx context.Context, id int64) (userdomain.Role, error) {
	if id == 1 {
		return userdomain.Role{ID: 1, Code: "USER", Name: "User"}, nil
	}
	return userdomain.Role{}, userrepo.ErrRoleNotFound
}

func (memoryRoles) List(ctx context.Context) ([]userdomain.Role, error) {
	return []userdomain.Role{{ID: 1, Code: "USER", Name: "User"}}, nil
}

type memorySessions struct {
	mu   sync.Mutex
	rows []authdomain.RefreshToken
}

func (m *memorySessions) Create(ctx context.Context, t authdomain.RefreshToken) (authdomain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, t)
	return t, nil
}

func (m *memorySessions) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

func (m *memorySessions) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

type testServer struct {
	handler  http.Handler
	auth     *service.AuthService
	sessions *memorySessions
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	hasher := commoncrypto.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)

	users := &memoryUsers{byEmail: map[string]userdomain.User{
		"alice@x.com": {ID: 1, Email: "alice@x.com", Username: "alice", PasswordHash: hash, RoleTypeID: 1},
	}}
	sessions := &memorySessions{}

	signer, err := token.NewSigner("0123456789abcdef0123456789abcdef", "HS256", commoncrypto.NewUUIDGenerator(), clock.NewRealClock())
	require.NoError(t, err)

	log := logger.NewWriter(&bytes.Buffer{}, "test", "DEBUG")
	auth := service.NewAuthService(
		users,
		memoryRoles{},
		service.NewSessionStore(sessions, commoncrypto.NewURLSafeTokenGenerator()),
		hasher,
		signer,
		db.NoopTxManager{},
		30*time.Minute,
		log,
	)

	limiter := commonhttp.NewRateLimiter("login", 100, 100, time.Minute, nil)
	mux := http.NewServeMux()
	NewHandler(auth, log).Register(mux, limiter.Middleware(nil), jwtverify.Middleware(auth, log), time.Second)

	return testServer{handler: commonhttp.BuildBaseHandler(log, []string{"*"}, mux), auth: auth, sessions: sessions}
}

func (s testServer) do(t *testing.T, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthFlow_Alice(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/auth/token", `{"email":"alice@x.com","password":"secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tok struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		Role         *struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"role"`
		User struct {
			ID       int64  `json:"id"`
			Email    string `json:"email"`
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	assert.NotEmpty(t, tok.AccessToken)
	assert.NotEmpty(t, tok.RefreshToken)
	assert.Equal(t, "bearer", tok.TokenType)
	require.NotNil(t, tok.Role)
	assert.Equal(t, "USER", tok.Role.Code)
	assert.Equal(t, "alice", tok.User.Username)

	rec = s.do(t, http.MethodPost, "/auth/token", `{"email":"alice@x.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")

	count, err := s.auth.SessionCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rec = s.do(t, http.MethodPost, "/auth/logout/", "", tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var msg struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.NotEmpty(t, msg.Message)

	count, err = s.auth.SessionCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The access token outlives the revoked sessions.
	rec = s.do(t, http.MethodPost, "/auth/logout", "", tok.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout_RequiresBearer(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/auth/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = s.do(t, http.MethodPost, "/auth/logout", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_LongPasswordIsInvalidCredentials(t *testing.T) {
	s := newTestServer(t)

	body := `{"email":"alice@x.com","password":"` + strings.Repeat("x", 200) + `"}`
	rec := s.do(t, http.MethodPost, "/auth/token", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestLogin_ValidationAndMethod(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/auth/token", `{"email":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")

	rec = s.do(t, http.MethodPost, "/auth/token", `{`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_JSON")

	rec = s.do(t, http.MethodGet, "/auth/token", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	log := logger.NewWriter(&bytes.Buffer{}, "test", "DEBUG")
	limiter := commonhttp.NewRateLimiter("login", 0.001, 1, time.Minute, nil)

	mux := http.NewServeMux()
	NewHandler(&stubAuth{}, log).Register(mux, limiter.Middleware(nil), func(h http.Handler) http.Handler { return h }, time.Second)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"email":"a@x.com","password":"p"}`))
		req.RemoteAddr = "192.0.2.1:5555"
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, input service.LoginInput) (service.LoginResult, error) {
	return service.LoginResult{AccessToken: "a", RefreshToken: "r", User: userdomain.User{ID: 1}}, nil
}

func (stubAuth) Logout(ctx context.Context, user userdomain.User) error {
	return nil
}
