package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brand-registry/backend/internal/brand/domain"
	brandrepo "github.com/brand-registry/backend/internal/brand/repository"
	"github.com/brand-registry/backend/internal/common/constants"
	"github.com/brand-registry/backend/internal/common/db"
	commonerrors "github.com/brand-registry/backend/internal/common/errors"
	"github.com/brand-registry/backend/internal/common/logger"
	"github.com/brand-registry/backend/internal/observability/metrics"
	userdomain "github.com/brand-registry/backend/internal/user/domain"
	userrepo "github.com/brand-registry/backend/internal/user/repository"
)

type CreateInput struct {
	Title       string
	UserID      int64
	StateTypeID int64
}

type UpdateInput struct {
	Title       *string
	StateTypeID *int64
}

type ListResult struct {
	Brands []domain.Brand
	Total  int64
	Skip   int
	Limit  int
}

type BrandService struct {
	brands brandrepo.Repository
	states brandrepo.StateTypeRepository
	roles  userrepo.RoleRepository
	tx     db.TxManager
	log    *logger.Logger
}

func NewBrandService(
	brands brandrepo.Repository,
	states brandrepo.StateTypeRepository,
	roles userrepo.RoleRepository,
	tx db.TxManager,
	log *logger.Logger,
) *BrandService {
	return &BrandService{
		brands: brands,
		states: states,
		roles:  roles,
		tx:     tx,
		log:    log,
	}
}

func (s *BrandService) Create(ctx context.Context, input CreateInput) (domain.Brand, error) {
	created, err := s.brands.Create(ctx, domain.Brand{
		Title:       strings.TrimSpace(input.Title),
		UserID:      input.UserID,
		StateTypeID: input.StateTypeID,
	})
	if err != nil {
		mapped := mapRepoError(err)
		s.logFailure(ctx, "brand_create_failed", mapped)
		return domain.Brand{}, mapped
	}

	metrics.BrandsCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"brand_id": created.ID,
		"user_id":  created.UserID,
		"action":   "brand_create_success",
	}).Info("brand created")

	return created, nil
}

func (s *BrandService) List(ctx context.Context, skip, limit int) (ListResult, error) {
	if skip < 0 || limit < 0 || limit > constants.MaxPageLimit {
		return ListResult{}, commonerrors.ErrValidation.WithDetails(map[string]any{
			"pagination": fmt.Sprintf("skip must be non-negative and limit between 0 and %d", constants.MaxPageLimit),
		})
	}

	page, err := s.brands.List(ctx, skip, limit)
	if err != nil {
		mapped := mapRepoError(err)
		s.logFailure(ctx, "brand_list_failed", mapped)
		return ListResult{}, mapped
	}

	return ListResult{Brands: page.Brands, Total: page.Total, Skip: skip, Limit: limit}, nil
}

func (s *BrandService) Get(ctx context.Context, id int64) (domain.Brand, error) {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return domain.Brand{}, mapRepoError(err)
	}
	return brand, nil
}

func (s *BrandService) Update(ctx context.Context, id int64, input UpdateInput) (domain.Brand, error) {
	var updated domain.Brand
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.brands.FindByID(ctx, id)
		if err != nil {
			return mapRepoError(err)
		}

		if input.Title != nil {
			current.Title = strings.TrimSpace(*input.Title)
		}
		if input.StateTypeID != nil && *input.StateTypeID > 0 {
			current.StateTypeID = *input.StateTypeID
		}

		updated, err = s.brands.Update(ctx, current)
		return mapRepoError(err)
	})
	if err != nil {
		s.logFailure(ctx, "brand_update_failed", err)
		return domain.Brand{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"brand_id": updated.ID,
		"action":   "brand_update_success",
	}).Info("brand updated")

	return updated, nil
}

func (s *BrandService) Delete(ctx context.Context, id int64) error {
	if err := s.brands.Delete(ctx, id); err != nil {
		mapped := mapRepoError(err)
		s.logFailure(ctx, "brand_delete_failed", mapped)
		return mapped
	}

	metrics.BrandsDeleted.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"brand_id": id,
		"action":   "brand_delete_success",
	}).Info("brand deleted")
	return nil
}

func (s *BrandService) ListStateTypes(ctx context.Context) ([]domain.StateType, error) {
	states, err := s.states.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if len(states) == 0 {
		return nil, commonerrors.ErrNoStateTypes
	}
	return states, nil
}

func (s *BrandService) ListRoleTypes(ctx context.Context) ([]userdomain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if len(roles) == 0 {
		return nil, commonerrors.ErrNoRoleTypes
	}
	return roles, nil
}

func (s *BrandService) logFailure(ctx context.Context, action string, err error) {
	entry := s.log.WithFields(ctx, logger.Fields{"action": action})
	if de, ok := commonerrors.AsDomainError(err); ok && de.HTTPStatus() < 500 {
		entry.Warnf("%s: %s", action, de.Code())
		return
	}
	entry.Errorf("%s: %v", action, err)
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if commonerrors.IsDomainError(err) {
		return err
	}
	switch {
	case errors.Is(err, brandrepo.ErrBrandNotFound):
		return commonerrors.ErrBrandNotFound
	case errors.Is(err, brandrepo.ErrInvalidReference):
		return commonerrors.ErrInvalidReference.WithDetails(map[string]any{
			"brand": "user_id or state_type_id does not exist",
		})
	default:
		return commonerrors.ErrDatabaseError.WithCause(err)
	}
}
