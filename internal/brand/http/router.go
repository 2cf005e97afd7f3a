package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/brand-registry/backend/internal/brand/domain"
	"github.com/brand-registry/backend/internal/brand/service"
	commonhttp "github.com/brand-registry/backend/internal/common/http"
	"github.com/brand-registry/backend/internal/common/logger"
	"github.com/brand-registry/backend/internal/common/mapper"
	userdomain "github.com/brand-registry/backend/internal/user/domain"
)

type BrandService interface {
	Create(ctx context.Context, input service.CreateInput) (domain.Brand, error)
	List(ctx context.Context, skip, limit int) (service.ListResult, error)
	Get(ctx context.Context, id int64) (domain.Brand, error)
	Update(ctx context.Context, id int64, input service.UpdateInput) (domain.Brand, error)
	Delete(ctx context.Context, id int64) error
	ListStateTypes(ctx context.Context) ([]domain.StateType, error)
	ListRoleTypes(ctx context.Context) ([]userdomain.Role, error)
}

type createBrandRequest struct {
	BrandTitle  string `json:"brand_title" validate:"required,max=200"`
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	StateTypeID int64  `json:"state_type_id" validate:"required,gt=0"`
}

type updateBrandRequest struct {
	BrandTitle  *string `json:"brand_title" validate:"omitempty,min=1,max=200"`
	StateTypeID *int64  `json:"state_type_id" validate:"omitempty,gt=0"`
}

type brandListResponse struct {
	Brands []mapper.BrandResponse `json:"brands"`
	Total  int64                  `json:"total"`
	Skip   int                    `json:"skip"`
	Limit  int                    `json:"limit"`
	Pages  int64                  `json:"pages"`
}

type Handler struct {
	brands    BrandService
	validator *commonhttp.Validator
	errors    *commonhttp.ErrorHandler
	log       *logger.Logger
}

func NewHandler(brands BrandService, log *logger.Logger) *Handler {
	return &Handler{
		brands:    brands,
		validator: commonhttp.NewValidator(),
		errors:    commonhttp.NewErrorHandler(log),
		log:       log,
	}
}

// Register mounts the brand routes, all behind protect. The lookup paths
// are literal and win over /brand/{id}.
func (h *Handler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler, timeout time.Duration) {
	withTimeout := commonhttp.WithTimeout(timeout)
	route := func(method, path string, fn http.HandlerFunc) {
		commonhttp.HandleRoute(mux, method, path, protect(withTimeout(fn)))
	}

	route(http.MethodPost, "/brand", h.create)
	route(http.MethodGet, "/brand", h.list)
	route(http.MethodGet, "/brand/state-types", h.stateTypes)
	route(http.MethodGet, "/brand/role-types", h.roleTypes)
	route(http.MethodGet, "/brand/{id}", h.get)
	route(http.MethodPut, "/brand/{id}", h.update)
	route(http.MethodDelete, "/brand/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBrandRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	brand, err := h.brands.Create(r.Context(), service.CreateInput{
		Title:       req.BrandTitle,
		UserID:      req.UserID,
		StateTypeID: req.StateTypeID,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, mapper.BrandToResponse(brand))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := commonhttp.ParsePage(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	result, err := h.brands.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, brandListResponse{
		Brands: mapper.BrandsToResponse(result.Brands),
		Total:  result.Total,
		Skip:   result.Skip,
		Limit:  result.Limit,
		Pages:  commonhttp.Pages(result.Total, result.Limit),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	brand, err := h.brands.Get(r.Context(), id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, mapper.BrandToResponse(brand))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	var req updateBrandRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	brand, err := h.brands.Update(r.Context(), id, service.UpdateInput{
		Title:       req.BrandTitle,
		StateTypeID: req.StateTypeID,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, mapper.BrandToResponse(brand))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.PathID(r, "id")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	if err := h.brands.Delete(r.Context(), id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, fmt.Sprintf("Brand with id %d deleted", id))
}

func (h *Handler) stateTypes(w http.ResponseWriter, r *http.Request) {
	states, err := h.brands.ListStateTypes(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.StateTypesToLookup(states))
}

func (h *Handler) roleTypes(w http.ResponseWriter, r *http.Request) {
	roles, err := h.brands.ListRoleTypes(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, mapper.RolesToLookup(roles))
}
