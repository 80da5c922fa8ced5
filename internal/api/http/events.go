package http

import (
	"context"
	"net/http"
	"strconv"

	syncx "github.com/mind-engage/mindengage-grades/internal/sync"
)

// EventSource reads the gradebook change log.
type EventSource interface {
	Since(ctx context.Context, seq int64, limit int) ([]syncx.Event, error)
}

// GET /events?since=0&limit=100
func ListEventsHandler(src EventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var since int64
		if v := r.URL.Query().Get("since"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				http.Error(w, "bad since", http.StatusBadRequest)
				return
			}
			since = n
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		events, err := src.Since(r.Context(), since, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if events == nil {
			events = []syncx.Event{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": events})
	}
}
