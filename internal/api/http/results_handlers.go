package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/hirelens/hirelens-assess/internal/auth/middleware"
	"github.com/hirelens/hirelens-assess/internal/rbac"
	"github.com/hirelens/hirelens-assess/internal/testbank"
)

// GetResultHandler serves a scored submission's outcome. Workers see only
// their own results; result:view-all roles see everyone's.
func GetResultHandler(store testbank.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")

		sub, err := store.GetSubmission(r.Context(), id)
		if err != nil {
			if errors.Is(err, testbank.ErrSubmissionNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		caller := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())
		if sub.WorkerID != caller && !checker.Has(role, "result:view-all") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		rec, err := store.GetResult(r.Context(), id)
		if err != nil {
			if errors.Is(err, testbank.ErrResultNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, rec)
	}
}
