package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	commonhttp "github.com/brand-registry/backend/internal/common/http"
	"github.com/brand-registry/backend/internal/common/logger"
	"github.com/brand-registry/backend/internal/common/mapper"
	"github.com/brand-registry/backend/internal/user/domain"
	"github.com/brand-registry/backend/internal/user/service"
)

type UserService interface {
	Create(ctx context.Context, input service.CreateInput) (domain.User, error)
	List(ctx context.Context, skip, limit int) (service.ListResult, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	Update(ctx context.Context, id int64, input service.UpdateInput) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type createUserRequest struct {
	Email      string  `json:"email" validate:"required,email,max=255"`
	Username   string  `json:"username" validate:"required,max=100"`
	FullName   *string `json:"fullName" validate:"omitempty,max=200"`
	Password   string  `json:"password" validate:"required,maxbytes=72"`
	RoleTypeID *int64  `json:"role_type_id" validate:"omitempty,gt=0"`
}

type updateUserRequest struct {
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Username   *string `json:"username" validate:"omitempty,min=1,max=100"`
	FullName   *string `json:"fullName" validate:"omitempty,max=200"`
	Password   *string `json:"password" validate:"omitempty,maxbytes=72"`
	RoleTypeID *int64  `json:"role_type_id" validate:"omitempty,gt=0"`
}

type userListResponse struct {
	Users []mapper.UserResponse `json:"users"`
	Total int64                 `json:"total"`
	Skip  int                   `json:"skip"`
	Limit int                   `json:"limit"`
	Pages int64                 `json:"pages"`
}

type Handler struct {
	users     UserService
	validator *commonhttp.Validator
	errors    *commonhttp.ErrorHandler
	log       *logger.Logger
}

func NewHandler(users UserService, log *logger.Logger) *Handler {
	return &Handler{
		users:     users,
		validator: commonhttp.NewValidator(),
		errors:    commonhttp.NewErrorHandler(log),
		log:       log,
	}
}

// Register mounts the user routes. Registration is public; everything else
// goes through protect.
func (h *Handler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler, timeout time.Duration) {
	withTimeout := commonhttp.WithTimeout(timeout)
	commonhttp.HandleRoute(mux, http.MethodPost, "/users", withTimeout(h.create))
	commonhttp.HandleRoute(mux, http.MethodGet, "/users", protect(withTimeout(h.list)))
	commonhttp.HandleRoute(mux, http.MethodGet, "/users/{id}", protect(withTimeout(h.get)))
	commonhttp.HandleRoute(mux, http.MethodPut, "/users/{id}", protect(withTimeout(h.update)))
	commonhttp.HandleRoute(mux, http.MethodDelete, "/users/{id}", protect(withTimeout(h.delete)))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateInput{
		Email:      req.Email,
		Username:   req.Username,
		FullName:   req.FullName,
		Password:   req.Password,
		RoleTypeID: req.RoleTypeID,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, mapper.UserToResponse(user))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := commonhttp.ParsePage(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	result, err := h.users.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, userListResponse{
		Users: mapper.UsersToResponse(result.Users),
		Total: result.Total,
		Skip:  result.Skip,
		Limit: result.Limit,
		Pages: commonhttp.Pages(result.Total, result.Limit),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, mapper.UserToResponse(user))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UpdateInput{
		Email:      req.Email,
		Username:   req.Username,
		FullName:   req.FullName,
		Password:   req.Password,
		RoleTypeID: req.RoleTypeID,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, mapper.UserToResponse(user))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, fmt.Sprintf("User with id %d deleted", id))
}
