// Package handlers exposes the dispatcher commands as a JSON API.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-facto/httpx"
	"github.com/diewo77/go-facto/internal/command"
	"github.com/diewo77/go-facto/validation"
)

const dateLayout = "2006-01-02"

// respond writes the body of a completed command with okStatus, or the reason
// of a failed one with the matching error status.
func respond[T any](w http.ResponseWriter, resp command.Response[T], okStatus int) {
	switch {
	case resp.OK():
		if okStatus == http.StatusNoContent {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		httpx.JSON(w, okStatus, resp.Body)
	case resp.Status == command.Rejected:
		httpx.JSONError(w, http.StatusConflict, resp.Reason, resp.Status)
	case resp.NotFound():
		httpx.JSONError(w, http.StatusNotFound, resp.Reason, resp.Status)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, resp.Reason, resp.Status)
	}
}

func invalid(w http.ResponseWriter, v validation.Violations) {
	httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
}

func badRequest(w http.ResponseWriter, err error) {
	httpx.JSONError(w, http.StatusBadRequest, err.Error(), nil)
}

// pathIDs parses every named path id, reporting the first invalid one.
func pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]uint, bool) {
	ids := make([]uint, len(names))
	for i, name := range names {
		id, err := httpx.PathID(r, name)
		if err != nil {
			badRequest(w, err)
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

func queryUint(r *http.Request, name string, v validation.Violations) uint {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		v[name] = "invalid_number"
		return 0
	}
	return uint(n)
}

// queryDate parses a YYYY-MM-DD query parameter in UTC. endOfDay moves the
// result to the last instant of that day.
func queryDate(r *http.Request, name string, endOfDay bool, v validation.Violations) time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		v[name] = "invalid_date"
		return time.Time{}
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t
}
