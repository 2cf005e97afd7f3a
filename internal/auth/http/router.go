package http

import (
	"context"
	"net/http"
	"time"

	"github.com/brand-registry/backend/internal/auth/service"
	"github.com/brand-registry/backend/internal/common/constants"
	commonerrors "github.com/brand-registry/backend/internal/common/errors"
	commonhttp "github.com/brand-registry/backend/internal/common/http"
	"github.com/brand-registry/backend/internal/common/jwtverify"
	"github.com/brand-registry/backend/internal/common/logger"
	"github.com/brand-registry/backend/internal/common/mapper"
	userdomain "github.com/brand-registry/backend/internal/user/domain"
)

const logoutMessage = "Session closed successfully"

type AuthService interface {
	Login(ctx context.Context, input service.LoginInput) (service.LoginResult, error)
	Logout(ctx context.Context, user userdomain.User) error
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	TokenType    string               `json:"token_type"`
	Role         *mapper.RoleResponse `json:"role"`
	User         mapper.UserResponse  `json:"user"`
}

type Handler struct {
	auth      AuthService
	validator *commonhttp.Validator
	errors    *commonhttp.ErrorHandler
	log       *logger.Logger
}

func NewHandler(auth AuthService, log *logger.Logger) *Handler {
	return &Handler{
		auth:      auth,
		validator: commonhttp.NewValidator(),
		errors:    commonhttp.NewErrorHandler(log),
		log:       log,
	}
}

// Register mounts the auth routes. loginLimiter guards /auth/token and
// protect resolves the bearer token for /auth/logout.
func (h *Handler) Register(
	mux *http.ServeMux,
	loginLimiter func(http.Handler) http.Handler,
	protect func(http.Handler) http.Handler,
	timeout time.Duration,
) {
	withTimeout := commonhttp.WithTimeout(timeout)
	commonhttp.HandleRoute(mux, http.MethodPost, "/auth/token", loginLimiter(withTimeout(h.login)))
	commonhttp.HandleRoute(mux, http.MethodPost, "/auth/logout", protect(withTimeout(h.logout)))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "login_invalid_json",
		}).Warnf("login failed: invalid json: %v", err)
		h.errors.HandleError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	tokenType := result.TokenType
	if tokenType == "" {
		tokenType = constants.TokenTypeBearer
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    tokenType,
		Role:         mapper.RoleToResponse(result.Role),
		User:         mapper.UserToResponse(result.User),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	user, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, commonerrors.ErrUnauthenticated)
		return
	}

	if err := h.auth.Logout(r.Context(), user); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, logoutMessage)
}
