package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	httperrors "skillmarket/internal/errors"
	"skillmarket/internal/schedule"
	"skillmarket/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps core and service errors onto HTTP status codes. Conflicting
// or impossible transitions are 409, permission failures 403, missing records
// 404; anything unrecognized stays a 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var httpErr *httperrors.HTTPError
	switch {
	case stderrors.As(err, &httpErr):
		http.Error(w, httpErr.Message, httpErr.Code)
	case stderrors.Is(err, schedule.ErrSlotUnavailable):
		http.Error(w, err.Error(), http.StatusConflict)
	case stderrors.Is(err, schedule.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case stderrors.Is(err, schedule.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case stderrors.Is(err, service.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case stderrors.Is(err, service.ErrPastDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
