package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/gradebook"
	"github.com/mind-engage/mindengage-grades/internal/rbac"
)

// MountGradebooks registers the gradebook routes under r. Callers put
// JWT and role middleware in front.
func MountGradebooks(r chi.Router, svc *gradebook.Service) {
	read := rbac.Require("gradebook:read")
	write := rbac.Require("gradebook:write")

	r.With(read).Get("/", ListGradebooksHandler(svc))
	r.With(write).Post("/", CreateGradebookHandler(svc))

	r.Route("/{bookID}", func(br chi.Router) {
		br.With(read).Get("/", GetGradebookHandler(svc))
		br.With(write).Delete("/", DeleteGradebookHandler(svc))
		br.With(read).Get("/charts", ChartsHandler(svc))

		br.With(write).Post("/courses", AddCourseHandler(svc))
		br.With(write).Delete("/courses/{courseID}", RemoveCourseHandler(svc))
		br.With(write).Put("/quota", SetQuotaHandler(svc))

		br.With(rbac.Require("gradebook:optimize")).Post("/optimize", OptimizeHandler(svc))
		br.With(rbac.RequireAny("gradebook:optimize", "gradebook:read")).Get("/optimize/next", NextOptionHandler(svc))
		br.With(rbac.RequireAll("gradebook:optimize", "gradebook:export")).Post("/reports", SaveReportsHandler(svc))

		br.With(write).Post("/import", ImportHandler(svc))
		br.With(rbac.Require("gradebook:export")).Get("/export", ExportHandler(svc))

		br.Route("/sessions", func(sr chi.Router) {
			sr.Use(write)
			sr.Post("/", BeginEditHandler(svc))
			sr.Get("/{sessionID}", SessionSnapshotHandler(svc))
			sr.Delete("/{sessionID}", CancelSessionHandler(svc))
			sr.Put("/{sessionID}/courses", SessionPutHandler(svc))
			sr.Delete("/{sessionID}/courses/{courseID}", SessionRemoveHandler(svc))
			sr.Post("/{sessionID}/commit", CommitSessionHandler(svc))
		})
	})
}

// GET /gradebooks
func ListGradebooksHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		books, err := svc.ListBooks(r.Context(), sub)
		if err != nil {
			writeError(w, err)
			return
		}
		if books == nil {
			books = []gradebook.Book{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": books})
	}
}

// POST /gradebooks  { "name": "..." }
func CreateGradebookHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		b, err := svc.CreateBook(r.Context(), sub, req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

type gradebookView struct {
	gradebook.Summary
	Courses []courseJSON `json:"courses"`
}

// GET /gradebooks/{bookID}
func GetGradebookHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		sum, err := svc.Summary(r.Context(), sub, chi.URLParam(r, "bookID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, gradebookView{Summary: sum, Courses: coursesJSON(sum.Courses)})
	}
}

// DELETE /gradebooks/{bookID}
func DeleteGradebookHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		if err := svc.DeleteBook(r.Context(), sub, chi.URLParam(r, "bookID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /gradebooks/{bookID}/charts
func ChartsHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		c, err := svc.Charts(r.Context(), sub, chi.URLParam(r, "bookID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// PUT /gradebooks/{bookID}/quota  { "quota": 15 }
func SetQuotaHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := subject(w, r)
		if !ok {
			return
		}
		var req struct {
			Quota *int `json:"quota"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quota == nil {
			http.Error(w, "quota required", http.StatusBadRequest)
			return
		}
		q, err := svc.SetQuota(r.Context(), sub, chi.URLParam(r, "bookID"), *req.Quota)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"quota": q})
	}
}

// courseJSON is the wire form of a course. Points and grade accept JSON
// numbers or strings; a grade of "pass" marks a pass/fail course.
type courseJSON struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Points   looseText `json:"points"`
	Grade    looseText `json:"grade"`
	Category string    `json:"category"`
}

func (c courseJSON) record() (course.Record, error) {
	return course.Parse(c.ID, c.Name, string(c.Points), string(c.Grade), c.Category)
}

func coursesJSON(recs []course.Record) []courseJSON {
	out := make([]courseJSON, len(recs))
	for i, r := range recs {
		f := r.Fields()
		out[i] = courseJSON{ID: f[0], Name: f[1], Points: looseText(f[2]), Grade: looseText(f[3]), Category: f[4]}
	}
	return out
}

// looseText decodes a JSON string or number into its text.
type looseText string

func (t *looseText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = looseText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = looseText(n.String())
	return nil
}

// MarshalJSON writes numeric text as a JSON number.
func (t looseText) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(t), 64); err == nil {
		return []byte(t), nil
	}
	return json.Marshal(string(t))
}
