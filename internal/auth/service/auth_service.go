package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brand-registry/backend/internal/auth/token"
	"github.com/brand-registry/backend/internal/common/constants"
	commoncrypto "github.com/brand-registry/backend/internal/common/crypto"
	"github.com/brand-registry/backend/internal/common/db"
	commonerrors "github.com/brand-registry/backend/internal/common/errors"
	"github.com/brand-registry/backend/internal/common/logger"
	"github.com/brand-registry/backend/internal/observability/metrics"
	userdomain "github.com/brand-registry/backend/internal/user/domain"
	userrepo "github.com/brand-registry/backend/internal/user/repository"
)

type TokenSigner interface {
	Sign(subject string, ttl time.Duration) (string, error)
	Verify(tokenString string) (token.Claims, error)
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	User         userdomain.User
	Role         *userdomain.Role
}

type AuthService struct {
	users          userrepo.Repository
	roles          userrepo.RoleRepository
	sessions       *SessionStore
	hasher         commoncrypto.PasswordHasher
	signer         TokenSigner
	tx             db.TxManager
	log            *logger.Logger
	accessTokenTTL time.Duration
}

func NewAuthService(
	users userrepo.Repository,
	roles userrepo.RoleRepository,
	sessions *SessionStore,
	hasher commoncrypto.PasswordHasher,
	signer TokenSigner,
	tx db.TxManager,
	accessTokenTTL time.Duration,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:          users,
		roles:          roles,
		sessions:       sessions,
		hasher:         hasher,
		signer:         signer,
		tx:             tx,
		log:            log,
		accessTokenTTL: accessTokenTTL,
	}
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := strings.TrimSpace(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_email").Inc()
			s.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			return LoginResult{}, commonerrors.ErrInvalidCredentials
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		return LoginResult{}, commonerrors.ErrInvalidCredentials
	}

	accessToken, err := s.signer.Sign(user.Username, s.accessTokenTTL)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	var refresh string
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		refresh, err = s.sessions.Create(ctx, user.ID, accessToken)
		return err
	})
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "login_session_create_failed",
		}).Errorf("login failed: session error: %v", err)
		return LoginResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	role := s.lookupRole(ctx, user.RoleTypeID)

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"action":   "login_success",
	}).Info("login success")

	return LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refresh,
		TokenType:    constants.TokenTypeBearer,
		User:         user,
		Role:         role,
	}, nil
}

// lookupRole returns nil when the role row is gone; the login still succeeds.
func (s *AuthService) lookupRole(ctx context.Context, roleID int64) *userdomain.Role {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if !errors.Is(err, userrepo.ErrRoleNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"role_type_id": roleID,
				"action":       "login_role_lookup_failed",
			}).Warnf("role lookup failed: %v", err)
		}
		return nil
	}
	return &role
}

// Authenticate resolves the bearer token to its user. The subject is the
// username at the time of issue.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (userdomain.User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return userdomain.User{}, commonerrors.ErrUnauthenticated
	}

	claims, err := s.signer.Verify(accessToken)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "authenticate_token_rejected",
		}).Debugf("token rejected: %v", err)
		if commonerrors.IsDomainError(err) {
			return userdomain.User{}, err
		}
		return userdomain.User{}, commonerrors.ErrInvalidToken.WithCause(err)
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": claims.Subject,
				"action":   "authenticate_subject_missing",
			}).Warn("token subject no longer resolves")
			return userdomain.User{}, commonerrors.ErrUnauthenticated
		}
		return userdomain.User{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return user, nil
}

// Logout revokes every session of the user. Access tokens already issued
// stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, user userdomain.User) error {
	var revoked int64
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		revoked, err = s.sessions.RevokeAll(ctx, user.ID)
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "logout_failed",
		}).Errorf("logout failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": user.ID,
		"revoked": revoked,
		"action":  "logout_success",
	}).Info("logout success")
	return nil
}

func (s *AuthService) SessionCount(ctx context.Context, userID int64) (int64, error) {
	return s.sessions.Count(ctx, userID)
}
