package http

import (
	"net/http"

	"github.com/hirelens/hirelens-assess/internal/audit"
)

// AuditTailHandler serves the most recent audit events, newest first.
func AuditTailHandler(repo *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := repo.Tail(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, events)
	}
}
