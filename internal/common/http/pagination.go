package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/brand-registry/backend/internal/common/constants"
	commonerrors "github.com/brand-registry/backend/internal/common/errors"
)

type Page struct {
	Skip  int
	Limit int
}

// ParsePage reads skip and limit from the query string. Missing values fall
// back to the defaults; negative or non-numeric values and limits above
// MaxPageLimit are rejected.
func ParsePage(r *http.Request) (Page, error) {
	q := r.URL.Query()
	details := map[string]any{}

	skip, ok := parseNonNegative(q.Get("skip"), constants.DefaultPageSkip)
	if !ok {
		details["skip"] = "must be a non-negative integer"
	}
	limit, ok := parseNonNegative(q.Get("limit"), constants.DefaultPageLimit)
	switch {
	case !ok:
		details["limit"] = "must be a non-negative integer"
	case limit > constants.MaxPageLimit:
		details["limit"] = fmt.Sprintf("must be at most %d", constants.MaxPageLimit)
	}

	if len(details) > 0 {
		return Page{}, commonerrors.ErrValidation.WithDetails(details)
	}
	return Page{Skip: skip, Limit: limit}, nil
}

func parseNonNegative(raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Pages is ceil(total/limit), or 1 when limit is zero.
func Pages(total int64, limit int) int64 {
	if limit <= 0 {
		return 1
	}
	return (total + int64(limit) - 1) / int64(limit)
}
