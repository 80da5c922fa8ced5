package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-grades/internal/gradebook"
)

// POST /gradebooks/{bookID}/optimize
// Runs the elective search against the stored quota and returns every
// ranked option.
func OptimizeHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		bookID := chi.URLParam(r, "bookID")
		run, err := svc.Optimize(r.Context(), sub, bookID)
		if err != nil {
			writeError(w, err)
			return
		}
		opts, err := svc.Options(r.Context(), sub, bookID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"options":    opts,
			"enumerated": run.Enumerated,
			"fallback":   run.Fallback,
		})
	}
}

// GET /gradebooks/{bookID}/optimize/next
// 204 once every option has been returned.
func NextOptionHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		opt, more, err := svc.NextOption(r.Context(), sub, chi.URLParam(r, "bookID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !more {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, opt)
	}
}

// POST /gradebooks/{bookID}/reports
// Saves the course file and the best-options report to the blob store.
func SaveReportsHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		bookID := chi.URLParam(r, "bookID")
		gradeKey, err := svc.SaveGradeFile(r.Context(), sub, bookID)
		if err != nil {
			writeError(w, err)
			return
		}
		optionsKey, err := svc.SaveBestOptions(r.Context(), sub, bookID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"grade_file": gradeKey, "best_options": optionsKey})
	}
}
