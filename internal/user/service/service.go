package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brand-registry/backend/internal/common/constants"
	commoncrypto "github.com/brand-registry/backend/internal/common/crypto"
	"github.com/brand-registry/backend/internal/common/db"
	commonerrors "github.com/brand-registry/backend/internal/common/errors"
	"github.com/brand-registry/backend/internal/common/logger"
	"github.com/brand-registry/backend/internal/observability/metrics"
	"github.com/brand-registry/backend/internal/user/domain"
	userrepo "github.com/brand-registry/backend/internal/user/repository"
)

type CreateInput struct {
	Email      string
	Username   string
	FullName   *string
	Password   string
	RoleTypeID *int64
}

// UpdateInput carries optional fields; nil leaves the stored value as is.
type UpdateInput struct {
	Email      *string
	Username   *string
	FullName   *string
	Password   *string
	RoleTypeID *int64
}

type ListResult struct {
	Users []domain.User
	Total int64
	Skip  int
	Limit int
}

type UserService struct {
	repo          userrepo.Repository
	hasher        commoncrypto.PasswordHasher
	tx            db.TxManager
	log           *logger.Logger
	defaultRoleID int64
}

func NewUserService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	tx db.TxManager,
	defaultRoleID int64,
	log *logger.Logger,
) *UserService {
	return &UserService{
		repo:          repo,
		hasher:        hasher,
		tx:            tx,
		log:           log,
		defaultRoleID: defaultRoleID,
	}
}

// resolveRole is the single place a missing role falls back to the
// configured default.
func (s *UserService) resolveRole(requested *int64) int64 {
	if requested != nil && *requested > 0 {
		return *requested
	}
	return s.defaultRoleID
}

func (s *UserService) Create(ctx context.Context, input CreateInput) (domain.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "user_create_attempt",
	}).Info("user create attempt")

	var created domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ensureAvailable(ctx, 0, input.Email, input.Username); err != nil {
			return err
		}

		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return mapHashError(err)
		}

		created, err = s.repo.Create(ctx, domain.User{
			Email:        input.Email,
			Username:     input.Username,
			FullName:     input.FullName,
			PasswordHash: hash,
			RoleTypeID:   s.resolveRole(input.RoleTypeID),
		})
		return mapRepoError(err)
	})
	if err != nil {
		s.logFailure(ctx, "user_create_failed", input.Username, err)
		return domain.User{}, err
	}

	metrics.UsersCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":  created.ID,
		"username": created.Username,
		"action":   "user_create_success",
	}).Info("user created")

	return created, nil
}

func (s *UserService) List(ctx context.Context, skip, limit int) (ListResult, error) {
	if skip < 0 || limit < 0 || limit > constants.MaxPageLimit {
		return ListResult{}, commonerrors.ErrValidation.WithDetails(map[string]any{
			"pagination": fmt.Sprintf("skip must be non-negative and limit between 0 and %d", constants.MaxPageLimit),
		})
	}

	page, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		s.logFailure(ctx, "user_list_failed", "", err)
		return ListResult{}, mapRepoError(err)
	}

	return ListResult{Users: page.Users, Total: page.Total, Skip: skip, Limit: limit}, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, mapRepoError(err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, input UpdateInput) (domain.User, error) {
	var updated domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return mapRepoError(err)
		}

		email := current.Email
		if input.Email != nil {
			email = strings.TrimSpace(*input.Email)
		}
		username := current.Username
		if input.Username != nil {
			username = strings.TrimSpace(*input.Username)
		}
		if err := s.ensureAvailable(ctx, id, email, username); err != nil {
			return err
		}

		current.Email = email
		current.Username = username
		if input.FullName != nil {
			current.FullName = input.FullName
		}
		if input.RoleTypeID != nil && *input.RoleTypeID > 0 {
			current.RoleTypeID = *input.RoleTypeID
		}
		if input.Password != nil && strings.TrimSpace(*input.Password) != "" {
			hash, err := s.hasher.Hash(*input.Password)
			if err != nil {
				return mapHashError(err)
			}
			current.PasswordHash = hash
		}

		updated, err = s.repo.Update(ctx, current)
		return mapRepoError(err)
	})
	if err != nil {
		s.logFailure(ctx, "user_update_failed", "", err)
		return domain.User{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": updated.ID,
		"action":  "user_update_success",
	}).Info("user updated")

	return updated, nil
}

// Delete removes the user; sessions and brand records go with it through
// the ON DELETE CASCADE foreign keys.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		mapped := mapRepoError(err)
		s.logFailure(ctx, "user_delete_failed", "", mapped)
		return mapped
	}

	metrics.UsersDeleted.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": id,
		"action":  "user_delete_success",
	}).Info("user deleted")
	return nil
}

// ensureAvailable rejects an email or username held by a user other than
// selfID. Email is checked first.
func (s *UserService) ensureAvailable(ctx context.Context, selfID int64, email, username string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != selfID:
		return commonerrors.ErrEmailTaken
	case err != nil && !errors.Is(err, userrepo.ErrUserNotFound):
		return mapRepoError(err)
	}

	existing, err = s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil && existing.ID != selfID:
		return commonerrors.ErrUsernameTaken
	case err != nil && !errors.Is(err, userrepo.ErrUserNotFound):
		return mapRepoError(err)
	}
	return nil
}

func (s *UserService) logFailure(ctx context.Context, action, username string, err error) {
	fields := logger.Fields{"action": action}
	if username != "" {
		fields["username"] = username
	}
	entry := s.log.WithFields(ctx, fields)

	if de, ok := commonerrors.AsDomainError(err); ok && de.HTTPStatus() < 500 {
		entry.Warnf("%s: %s", action, de.Code())
		return
	}
	entry.Errorf("%s: %v", action, err)
}

func mapHashError(err error) error {
	switch {
	case errors.Is(err, commoncrypto.ErrPasswordTooLong):
		return commonerrors.ErrValidation.WithDetails(map[string]any{
			"password": fmt.Sprintf("must be at most %d bytes", commoncrypto.MaxPasswordBytes),
		})
	case errors.Is(err, commoncrypto.ErrEmptyPassword):
		return commonerrors.ErrValidation.WithDetails(map[string]any{"password": "is required"})
	default:
		return commonerrors.ErrInternalError.WithCause(err)
	}
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if commonerrors.IsDomainError(err) {
		return err
	}
	switch {
	case errors.Is(err, userrepo.ErrUserNotFound):
		return commonerrors.ErrUserNotFound
	case errors.Is(err, userrepo.ErrEmailExists):
		return commonerrors.ErrEmailTaken
	case errors.Is(err, userrepo.ErrUsernameExists):
		return commonerrors.ErrUsernameTaken
	case errors.Is(err, userrepo.ErrInvalidRoleReference):
		return commonerrors.ErrInvalidReference.WithDetails(map[string]any{"role_type_id": "does not exist"})
	default:
		return commonerrors.ErrDatabaseError.WithCause(err)
	}
}
