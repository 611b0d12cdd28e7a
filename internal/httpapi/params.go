package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/radekzitek/crudelty/internal/utils"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// parseResourcePath splits /<resource> and /<resource>/{id} paths.
// A malformed path is answered directly; ok is false in that case.
func parseResourcePath(w http.ResponseWriter, r *http.Request, resource string) (id int64, hasID bool, ok bool) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	if len(parts) == 0 || parts[0] != resource {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
		return 0, false, false
	}

	switch len(parts) {
	case 1:
		return 0, false, true
	case 2:
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid ID")
			return 0, false, false
		}
		return id, true, true
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
		return 0, false, false
	}
}

// parsePagination reads skip/limit query parameters with defaults.
func parsePagination(r *http.Request) (skip, limit int, err error) {
	skip, err = parseIntParam(r, "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	if skip < 0 {
		return 0, 0, fmt.Errorf("skip must not be negative")
	}

	limit, err = parseIntParam(r, "limit", defaultPageLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit <= 0 {
		return 0, 0, fmt.Errorf("limit must be positive")
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return skip, limit, nil
}

func parseIntParam(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return value, nil
}

// parseIDFilter reads an optional numeric filter such as org_id.
func parseIDFilter(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter", name)
	}
	return &value, nil
}
