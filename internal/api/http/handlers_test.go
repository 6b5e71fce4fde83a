package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelens/hirelens-assess/internal/assess"
	authmw "github.com/hirelens/hirelens-assess/internal/auth/middleware"
	"github.com/hirelens/hirelens-assess/internal/rbac"
	"github.com/hirelens/hirelens-assess/internal/testbank"
)

type testEnv struct {
	router  *chi.Mux
	store   testbank.Store
	authSvc *authmw.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)
	store := testbank.NewInMemoryStore()
	engine := assess.NewEngine(assess.WithLogger(quiet))
	svc := testbank.NewService(store, engine, quiet)
	authSvc := authmw.NewAuthService("test-secret", time.Hour)
	checker := rbac.NewChecker(nil)

	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))
		pr.With(rbac.Require("test:create")).Post("/tests", PutTestHandler(store))
		pr.With(rbac.Require("test:list")).Get("/tests", ListTestsHandler(store))
		pr.With(rbac.Require("test:view")).Get("/tests/{testID}", GetTestHandler(store, checker))
		pr.With(rbac.Require("submission:create")).Post("/submissions", CreateSubmissionHandler(svc, checker))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).Get("/submissions/{submissionID}", GetSubmissionHandler(store, checker))
		pr.With(rbac.Require("submission:score")).Post("/submissions/{submissionID}/score", ScoreSubmissionHandler(svc))
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).Get("/submissions/{submissionID}/result", GetResultHandler(store, checker))
	})
	return &testEnv{router: r, store: store, authSvc: authSvc}
}

func (e *testEnv) do(t *testing.T, method, path, sub, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if sub != "" {
		tok, err := e.authSvc.IssueJWT(sub, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func seededTest() testbank.Test {
	return testbank.Test{
		ID:         "apt-1",
		Instrument: assess.InstrumentAptitude,
		Title:      "Razonamiento general",
		Questions: []assess.Question{
			{ID: "q1", Number: 1, Type: assess.QuestionMultipleChoice, CorrectAnswer: &assess.AnswerKey{Choices: []string{"B"}}},
			{ID: "q2", Number: 2, Type: assess.QuestionMultipleChoice, CorrectAnswer: &assess.AnswerKey{Choices: []string{"D"}}},
		},
	}
}

func seededSubmission(workerID string, values ...string) assess.Submission {
	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sub := assess.Submission{
		TestID:      "apt-1",
		WorkerID:    workerID,
		StartedAt:   started,
		CompletedAt: started.Add(10 * time.Minute),
	}
	ids := []string{"q1", "q2"}
	for i, v := range values {
		sub.Answers = append(sub.Answers, assess.Answer{QuestionID: ids[i], Value: assess.StringValue(v)})
	}
	return sub
}

func TestUploadRequiresTestCreate(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/tests", "w-1", "worker", seededTest())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/tests", "rrhh", "hr", seededTest())
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestWorkerGetsSanitizedTestAndHRGetsFull(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/tests", "rrhh", "hr", seededTest()).Code)

	rec := env.do(t, http.MethodGet, "/tests/apt-1", "w-1", "worker", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var workerView testbank.Test
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&workerView))
	assert.Nil(t, workerView.Questions[0].CorrectAnswer)

	rec = env.do(t, http.MethodGet, "/tests/apt-1", "rrhh", "hr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fullView testbank.Test
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fullView))
	require.NotNil(t, fullView.Questions[0].CorrectAnswer)
	assert.Equal(t, []string{"B"}, fullView.Questions[0].CorrectAnswer.Choices)
}

func TestWorkerCannotSubmitForAnotherWorker(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/tests", "rrhh", "hr", seededTest()).Code)

	rec := env.do(t, http.MethodPost, "/submissions", "w-2", "worker", seededSubmission("w-1", "B", "D"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/submissions", "w-1", "worker", seededSubmission("w-1", "B", "D"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestScoreAndResultFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/tests", "rrhh", "hr", seededTest()).Code)

	rec := env.do(t, http.MethodPost, "/submissions", "w-1", "worker", seededSubmission("w-1", "B", "A"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created testbank.SubmissionRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	// Workers cannot trigger scoring.
	rec = env.do(t, http.MethodPost, "/submissions/"+created.ID+"/score", "w-1", "worker", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/submissions/"+created.ID+"/score", "rrhh", "hr", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The worker reads their own result; another worker is refused.
	rec = env.do(t, http.MethodGet, "/submissions/"+created.ID+"/result", "w-1", "worker", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out testbank.ResultRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, 50.0, out.Result.ScaledScores["percentage"])

	rec = env.do(t, http.MethodGet, "/submissions/"+created.ID+"/result", "w-2", "worker", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWorkerCannotReadAnotherWorkersSubmission(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/tests", "rrhh", "hr", seededTest()).Code)

	rec := env.do(t, http.MethodPost, "/submissions", "w-1", "worker", seededSubmission("w-1", "B", "D"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created testbank.SubmissionRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	// Another worker must not see w-1's raw answers.
	rec = env.do(t, http.MethodGet, "/submissions/"+created.ID, "w-2", "worker", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The owner and view-all roles still can.
	rec = env.do(t, http.MethodGet, "/submissions/"+created.ID, "w-1", "worker", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var own testbank.SubmissionRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&own))
	assert.Equal(t, "w-1", own.WorkerID)

	rec = env.do(t, http.MethodGet, "/submissions/"+created.ID, "rrhh", "hr", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScoreIncompleteSubmissionReturns422(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/tests", "rrhh", "hr", seededTest()).Code)

	rec := env.do(t, http.MethodPost, "/submissions", "w-1", "worker", seededSubmission("w-1", "B"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created testbank.SubmissionRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = env.do(t, http.MethodPost, "/submissions/"+created.ID+"/score", "rrhh", "hr", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/tests", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
