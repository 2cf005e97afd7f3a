package service

import (
	"context"
	"sync"

	"github.com/brand-registry/backend/internal/brand/domain"
	brandrepo "github.com/brand-registry/backend/internal/brand/repository"
	userdomain "github.com/brand-registry/backend/internal/user/domain"
)

// memoryBrandRepo enforces the user and state foreign keys against the
// sets it was built with.
type memoryBrandRepo struct {
	mu      sync.Mutex
	nextID  int64
	brands  map[int64]domain.Brand
	users   map[int64]bool
	states  map[int64]bool
	listErr error
}

func newMemoryBrandRepo(users, states []int64) *memoryBrandRepo {
	r := &memoryBrandRepo{
		brands: make(map[int64]domain.Brand),
		users:  make(map[int64]bool),
		states: make(map[int64]bool),
	}
	for _, id := range users {
		r.users[id] = true
	}
	for _, id := range states {
		r.states[id] = true
	}
	return r
}

func (r *memoryBrandRepo) Create(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.users[brand.UserID] || !r.states[brand.StateTypeID] {
		return domain.Brand{}, brandrepo.ErrInvalidReference
	}
	r.nextID++
	brand.ID = r.nextID
	r.brands[brand.ID] = brand
	return brand, nil
}

func (r *memoryBrandRepo) FindByID(ctx context.Context, id int64) (domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.brands[id]
	if !ok {
		return domain.Brand{}, brandrepo.ErrBrandNotFound
	}
	return b, nil
}

func (r *memoryBrandRepo) List(ctx context.Context, skip, limit int) (domain.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return domain.Page{}, r.listErr
	}

	var all []domain.Brand
	for id := int64(1); id <= r.nextID; id++ {
		if b, ok := r.brands[id]; ok {
			all = append(all, b)
		}
	}

	page := domain.Page{Total: int64(len(all)), Brands: []domain.Brand{}}
	if skip >= len(all) {
		return page, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	page.Brands = append(page.Brands, all[skip:end]...)
	return page, nil
}

func (r *memoryBrandRepo) Update(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.brands[brand.ID]; !ok {
		return domain.Brand{}, brandrepo.ErrBrandNotFound
	}
	if !r.states[brand.StateTypeID] {
		return domain.Brand{}, brandrepo.ErrInvalidReference
	}
	r.brands[brand.ID] = brand
	return brand, nil
}

func (r *memoryBrandRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.brands[id]; !ok {
		return brandrepo.ErrBrandNotFound
	}
	delete(r.brands, id)
	return nil
}

type stubStates struct {
	states []domain.StateType
	err    error
}

func (s stubStates) List(ctx context.Context) ([]domain.StateType, error) {
	return s.states, s.err
}

type stubRoles struct {
	roles []userdomain.Role
	err   error
}

func (s stubRoles) FindByID(ctx context.Context, id int64) (userdomain.Role, error) {
	for _, r := range s.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return userdomain.Role{}, s.err
}

func (s stubRoles) List(ctx context.Context) ([]userdomain.Role, error) {
	return s.roles, s.err
}
