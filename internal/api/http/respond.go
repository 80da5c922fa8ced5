package http

import (
	"encoding/json"
	"errors"
	"net/http"

	authmw "github.com/mind-engage/mindengage-grades/internal/auth/middleware"
	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/gradebook"
	"github.com/mind-engage/mindengage-grades/internal/ledger"
	"github.com/mind-engage/mindengage-grades/internal/optimizer"
	"github.com/mind-engage/mindengage-grades/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, course.ErrInvalidField),
		errors.Is(err, gradebook.ErrInvalidName),
		errors.Is(err, optimizer.ErrNegativeQuota),
		errors.Is(err, storage.ErrBadKey):
		return http.StatusBadRequest
	case errors.Is(err, gradebook.ErrNotFound),
		errors.Is(err, gradebook.ErrSessionNotFound),
		errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gradebook.ErrNameTaken),
		errors.Is(err, gradebook.ErrNoQuota),
		errors.Is(err, gradebook.ErrNoOptions),
		errors.Is(err, ledger.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, optimizer.ErrPoolTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gradebook.ErrNoBlobStore):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	http.Error(w, msg, status)
}

// subject returns the caller id, writing 401 when there is none.
func subject(w http.ResponseWriter, r *http.Request) (string, bool) {
	sub := authmw.SubjectFromContext(r.Context())
	if sub == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return sub, true
}
