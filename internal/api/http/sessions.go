package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-grades/internal/gradebook"
)

// POST /gradebooks/{bookID}/sessions
func BeginEditHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		id, err := svc.BeginEdit(r.Context(), sub, chi.URLParam(r, "bookID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
	}
}

// GET /gradebooks/{bookID}/sessions/{sessionID}
func SessionSnapshotHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		l, err := svc.SessionSnapshot(r.Context(), sub, chi.URLParam(r, "bookID"), chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"characteristics": l.Characteristics(),
			"courses":         coursesJSON(l.Records()),
		})
	}
}

// PUT /gradebooks/{bookID}/sessions/{sessionID}/courses
func SessionPutHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		var req courseJSON
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		rec, err := req.record()
		if err != nil {
			writeError(w, err)
			return
		}
		err = svc.SessionPut(r.Context(), sub, chi.URLParam(r, "bookID"), chi.URLParam(r, "sessionID"), rec)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /gradebooks/{bookID}/sessions/{sessionID}/courses/{courseID}
func SessionRemoveHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		err := svc.SessionRemove(r.Context(), sub,
			chi.URLParam(r, "bookID"), chi.URLParam(r, "sessionID"), chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /gradebooks/{bookID}/sessions/{sessionID}/commit
func CommitSessionHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		if err := svc.Commit(r.Context(), sub, chi.URLParam(r, "bookID"), chi.URLParam(r, "sessionID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /gradebooks/{bookID}/sessions/{sessionID}
func CancelSessionHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		if err := svc.Cancel(r.Context(), sub, chi.URLParam(r, "bookID"), chi.URLParam(r, "sessionID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
