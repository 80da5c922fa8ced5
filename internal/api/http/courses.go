package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/gradebook"
)

// POST /gradebooks/{bookID}/courses
// { "id": "MA101", "name": "Calculus", "points": 5, "grade": 85, "category": "math" }
func AddCourseHandler(svc *gradebook.Service) http.HandlerFunc {
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
		if err := svc.AddCourse(r.Context(), sub, chi.URLParam(r, "bookID"), rec); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, coursesJSON([]course.Record{rec})[0])
	}
}

// DELETE /gradebooks/{bookID}/courses/{courseID}
func RemoveCourseHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		err := svc.RemoveCourse(r.Context(), sub, chi.URLParam(r, "bookID"), chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
