package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/hirelens/hirelens-assess/internal/api/http"
	"github.com/hirelens/hirelens-assess/internal/assess"
	"github.com/hirelens/hirelens-assess/internal/audit"
	auth "github.com/hirelens/hirelens-assess/internal/auth/middleware"
	"github.com/hirelens/hirelens-assess/internal/config"
	"github.com/hirelens/hirelens-assess/internal/db"
	"github.com/hirelens/hirelens-assess/internal/rbac"
	"github.com/hirelens/hirelens-assess/internal/testbank"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := testbank.NewSQLStore(dbh, cfg.DBDriver)

	// --- Scoring engine + submission service ---
	engine := assess.NewEngine()
	auditRepo := audit.NewEventRepo(dbh)
	svc := testbank.NewService(store, engine, log.Default(), testbank.WithAudit(auditRepo))

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, 8*time.Hour)
	users := auth.StaticUsers{
		cfg.AdminUser: {PassHash: cfg.AdminPassHash, Role: "admin"},
	}
	checker := rbac.NewChecker(nil)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, users))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// HR/admin: test configuration
		pr.With(rbac.Require("test:create")).
			Post("/tests", api.PutTestHandler(store))
		pr.With(rbac.Require("test:list")).
			Get("/tests", api.ListTestsHandler(store))
		pr.With(rbac.Require("test:view")).
			Get("/tests/{testID}", api.GetTestHandler(store, checker))

		// Worker flow
		pr.With(rbac.Require("submission:create")).
			Post("/submissions", api.CreateSubmissionHandler(svc, checker))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/submissions/{submissionID}", api.GetSubmissionHandler(store, checker))
		pr.With(rbac.Require("submission:view-all")).
			Get("/submissions", api.ListSubmissionsHandler(store))

		// Scoring + results
		pr.With(rbac.Require("submission:score")).
			Post("/submissions/{submissionID}/score", api.ScoreSubmissionHandler(svc))
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/submissions/{submissionID}/result", api.GetResultHandler(store, checker))

		// Admin: audit trail
		pr.With(rbac.Require("audit:view")).
			Get("/audit", api.AuditTailHandler(auditRepo))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
