package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-grades/internal/gradebook"
)

const maxImportBytes = 1 << 20

// POST /gradebooks/{bookID}/import  (text/csv body, one course per line)
// Replaces every course; nothing changes if any line is invalid.
func ImportHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		body := http.MaxBytesReader(w, r.Body, maxImportBytes)
		n, err := svc.Import(r.Context(), sub, chi.URLParam(r, "bookID"), body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"courses": n})
	}
}

// GET /gradebooks/{bookID}/export
func ExportHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := svc.Export(r.Context(), sub, chi.URLParam(r, "bookID"), w); err != nil {
			writeError(w, err)
			return
		}
	}
}
