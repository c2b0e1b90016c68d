package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// maxPage bounds the page number echoed back to clients.
const maxPage = math.MaxInt32

type pageLimits struct {
	defaultLimit int
	minLimit     int
	maxLimit     int
	limitParams  []string
}

var (
	resourcePageLimits = pageLimits{defaultLimit: 10, minLimit: 1, maxLimit: 100, limitParams: []string{"limit"}}
	messagePageLimits  = pageLimits{defaultLimit: 25, minLimit: 5, maxLimit: 100, limitParams: []string{"limit", "size"}}
)

// parsePage reads page and limit from the query string. ok is false when no
// page parameter was given. Bad numbers fall back to defaults; page and limit
// are clamped.
func parsePage(r *http.Request, limits pageLimits) (req models.PageRequest, ok bool) {
	q := r.URL.Query()
	rawPage := strings.TrimSpace(q.Get("page"))
	ok = rawPage != ""

	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = 1
	}
	page = min(page, maxPage)

	limit := limits.defaultLimit
	for _, name := range limits.limitParams {
		if raw := strings.TrimSpace(q.Get(name)); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
			break
		}
	}
	limit = max(limits.minLimit, min(limits.maxLimit, limit))

	return models.PageRequest{Page: page, Limit: limit}, ok
}

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidFieldError("id", "must be a positive integer")
	}
	return uint(id), nil
}
