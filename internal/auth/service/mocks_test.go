package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	authdomain "github.com/brand-registry/backend/internal/auth/domain"
	userdomain "github.com/brand-registry/backend/internal/user/domain"
	userrepo "github.com/brand-registry/backend/internal/user/repository"
)

// memoryRefreshTokenRepo is safe for concurrent use so the concurrent login
// test can share it.
type memoryRefreshTokenRepo struct {
	mu        sync.Mutex
	nextID    int64
	tokens    []authdomain.RefreshToken
	createErr error
	deleteErr error
}

func (r *memoryRefreshTokenRepo) Create(ctx context.Context, token authdomain.RefreshToken) (authdomain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return authdomain.RefreshToken{}, r.createErr
	}
	r.nextID++
	token.ID = r.nextID
	token.CreatedAt = time.Now()
	r.tokens = append(r.tokens, token)
	return token, nil
}

func (r *memoryRefreshTokenRepo) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	kept := r.tokens[:0]
	var removed int64
	for _, t := range r.tokens {
		if t.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return removed, nil
}

func (r *memoryRefreshTokenRepo) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *memoryRefreshTokenRepo) all() []authdomain.RefreshToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]authdomain.RefreshToken(nil), r.tokens...)
}

type mockUserRepo struct {
	findByEmailFunc    func(ctx context.Context, email string) (userdomain.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	return user, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (userdomain.User, error) {
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) List(ctx context.Context, skip, limit int) (userdomain.Page, error) {
	return userdomain.Page{}, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	return user, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type mockRoleRepo struct {
	roles map[int64]userdomain.Role
}

func (m *mockRoleRepo) FindByID(ctx context.Context, id int64) (userdomain.Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return userdomain.Role{}, userrepo.ErrRoleNotFound
	}
	return role, nil
}

func (m *mockRoleRepo) List(ctx context.Context) ([]userdomain.Role, error) {
	out := make([]userdomain.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, hash string) bool {
	return strings.HasPrefix(hash, "hashed:") && strings.TrimPrefix(hash, "hashed:") == password
}

type counterTokens struct {
	mu sync.Mutex
	n  int
}

func (c *counterTokens) NewToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return "refresh-" + strconv.Itoa(c.n), nil
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NewID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return "jti-" + strconv.Itoa(s.n), nil
}
