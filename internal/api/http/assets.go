// internal/api/http/assets.go
package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/mindengage-grades/internal/auth/middleware"
	"github.com/mind-engage/mindengage-grades/internal/gradebook"
	"github.com/mind-engage/mindengage-grades/internal/rbac"
	"github.com/mind-engage/mindengage-grades/internal/storage"
)

// MountAssets serves saved grade files and best-options reports. Callers
// only see keys under their own prefix unless their role grants assets:any.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	// GET /assets/*   -> returns the blob at whatever follows /assets/
	r.With(rbac.Require("assets:read")).Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")        // everything after /assets/
		key = strings.TrimPrefix(key, "/") // normalize
		ctx := r.Context()
		own := strings.HasPrefix(key, gradebook.OwnerPrefix(authmw.SubjectFromContext(ctx)))
		if !own && !rbac.Allowed(ctx, "assets:any") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		ct := "application/octet-stream"
		switch {
		case strings.HasSuffix(key, ".csv"):
			ct = "text/csv; charset=utf-8"
		case strings.HasSuffix(key, ".txt"):
			ct = "text/plain; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
