package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hirelens/hirelens-assess/internal/rbac"
	"github.com/hirelens/hirelens-assess/internal/testbank"
)

// PutTestHandler uploads or replaces a test configuration.
func PutTestHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t testbank.Test
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if t.ID == "" || t.Instrument == "" || len(t.Questions) == 0 {
			http.Error(w, "id, instrument and questions required", http.StatusBadRequest)
			return
		}
		if err := store.PutTest(r.Context(), t); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": t.ID})
	}
}

// GetTestHandler serves a test. Roles with test:view-full get the scoring
// configuration; everyone else gets the worker-safe view.
func GetTestHandler(store testbank.Store, checker *rbac.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "testID")
		role := rbac.RoleFromContext(r.Context())

		var (
			t   testbank.Test
			err error
		)
		if checker.Has(role, "test:view-full") {
			t, err = store.GetTestAdmin(r.Context(), id)
		} else {
			t, err = store.GetTest(r.Context(), id)
		}
		if err != nil {
			if errors.Is(err, testbank.ErrTestNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, t)
	}
}

func ListTestsHandler(store testbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListTests(r.Context(), testbank.ListOpts{
			Instrument: strings.TrimSpace(r.URL.Query().Get("instrument")),
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, list)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
