package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hirelens/hirelens-assess/internal/assess"
	authmw "github.com/hirelens/hirelens-assess/internal/auth/middleware"
	"github.com/hirelens/hirelens-assess/internal/rbac"
	"github.com/hirelens/hirelens-assess/internal/testbank"
)

// CreateSubmissionHandler ingests a completed attempt. Workers may only
// submit under their own id; HR and admin can submit on behalf of a worker
// (bulk imports from the kiosk app).
func CreateSubmissionHandler(svc *testbank.Service, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub assess.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if sub.TestID == "" || sub.WorkerID == "" {
			http.Error(w, "test_id and worker_id required", http.StatusBadRequest)
			return
		}

		caller := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())
		if sub.WorkerID != caller && !checker.Has(role, "submission:view-all") {
			http.Error(w, "cannot submit for another worker", http.StatusForbidden)
			return
		}

		rec, err := svc.Ingest(r.Context(), sub)
		if err != nil {
			if errors.Is(err, testbank.ErrTestNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(rec)
	}
}

// ScoreSubmissionHandler runs the instrument strategy for a stored
// submission. Incomplete submissions come back 422; configuration and clock
// problems are server-side faults.
func ScoreSubmissionHandler(svc *testbank.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		rec, err := svc.Score(r.Context(), id)
		if err != nil {
			writeScoringError(w, err)
			return
		}
		writeJSON(w, rec)
	}
}

// GetSubmissionHandler serves a stored submission. Workers see only their
// own; submission:view-all roles see everyone's.
func GetSubmissionHandler(store testbank.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		rec, err := store.GetSubmission(r.Context(), id)
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
		if rec.WorkerID != caller && !checker.Has(role, "submission:view-all") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, rec)
	}
}

func ListSubmissionsHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListSubmissions(r.Context(), testbank.SubmissionListOpts{
			TestID:   strings.TrimSpace(r.URL.Query().Get("test_id")),
			WorkerID: strings.TrimSpace(r.URL.Query().Get("worker_id")),
			Status:   strings.TrimSpace(r.URL.Query().Get("status")),
			Limit:    parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:   parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, list)
	}
}

func writeScoringError(w http.ResponseWriter, err error) {
	var (
		incomplete *assess.IncompleteError
		clock      *assess.ClockOrderingError
		config     *assess.ConfigError
	)
	switch {
	case errors.Is(err, testbank.ErrSubmissionNotFound), errors.Is(err, testbank.ErrTestNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &incomplete):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &clock):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &config), errors.Is(err, assess.ErrUnknownInstrument):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
