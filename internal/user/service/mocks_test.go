package service

import (
	"context"
	"errors"
	"strings"

	"github.com/brand-registry/backend/internal/user/domain"
	userrepo "github.com/brand-registry/backend/internal/user/repository"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user domain.User) (domain.User, error)
	findByIDFunc       func(ctx context.Context, id int64) (domain.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (domain.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	listFunc           func(ctx context.Context, skip, limit int) (domain.Page, error)
	updateFunc         func(ctx context.Context, user domain.User) (domain.User, error)
	deleteFunc         func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return user, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) List(ctx context.Context, skip, limit int) (domain.Page, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, skip, limit)
	}
	return domain.Page{}, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user domain.User) (domain.User, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// fakeHasher prefixes the password so tests can assert on the stored hash
// without paying for bcrypt.
type fakeHasher struct {
	err error
}

func (h fakeHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	if password == "" {
		return "", errors.New("empty password")
	}
	return "hashed:" + password, nil
}

func (h fakeHasher) Verify(password, hash string) bool {
	return strings.TrimPrefix(hash, "hashed:") == password
}
