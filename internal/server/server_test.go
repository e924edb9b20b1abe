package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/recruitment-timeline/internal/db"
	"github.com/jonathan/recruitment-timeline/internal/schemas"
	"github.com/jonathan/recruitment-timeline/internal/server/ratelimit"
	"github.com/jonathan/recruitment-timeline/internal/timeline"
	"github.com/jonathan/recruitment-timeline/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	srv       *Server
	handler   http.Handler
	store     *timeline.MemoryStore
	token     string
	sarah     db.Recruiter
	michael   db.Recruiter
	interview db.StepCategory
	tech      db.StepCategory
	pending   db.StatusCategory
	complete  db.StatusCategory
}

type testOption func(*Deps)

func withRateLimit(cfg *ratelimit.Config) testOption {
	return func(d *Deps) { d.RateLimit = cfg }
}

func withPing(ping func(ctx context.Context) error) testOption {
	return func(d *Deps) { d.Ping = ping }
}

func newTestServer(t *testing.T, opts ...testOption) *testServer {
	t.Helper()

	store := timeline.NewMemoryStore()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwtService := setupTestJWTService(t, 24)
	deps := Deps{
		Service:   timeline.NewService(store, logger),
		JWT:       jwtService,
		RateLimit: &ratelimit.Config{Enabled: false},
		Logger:    logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv, err := New(Config{Port: 0}, deps)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	token, err := jwtService.GenerateToken("1")
	require.NoError(t, err)

	return &testServer{
		srv:       srv,
		handler:   srv.Handler(),
		store:     store,
		token:     token,
		sarah:     store.AddRecruiter(db.Recruiter{FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@recruitment.com"}),
		michael:   store.AddRecruiter(db.Recruiter{FirstName: "Michael", LastName: "Chen", Email: "michael.chen@recruitment.com"}),
		interview: store.AddStepCategory("1st Interview"),
		tech:      store.AddStepCategory("Tech Assessment"),
		pending:   store.AddStatusCategory("Pending"),
		complete:  store.AddStatusCategory("Complete"),
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.doWithToken(t, method, path, body, ts.token)
}

func (ts *testServer) doWithToken(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createTimeline(t *testing.T, recruiterID int64) types.Timeline {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/timelines", fmt.Sprintf(
		`{"recruiter_id": %d, "candidate_name": "John", "candidate_surname": "Doe"}`, recruiterID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Data types.Timeline `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func (ts *testServer) createStep(t *testing.T, tl types.Timeline, categoryID int64) types.Step {
	t.Helper()
	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/timelines/%d/steps", tl.ID), fmt.Sprintf(
		`{"candidate_id": %d, "recruiter_id": %d, "step_category_id": %d, "status_category_id": %d}`,
		tl.CandidateID, tl.RecruiterID, categoryID, ts.pending.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		Data types.Step `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	require.NoError(t, schemas.Validate(schemas.Error, rec.Body.Bytes()), rec.Body.String())
	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{}, Deps{JWT: setupTestJWTService(t, 1)})
	assert.Error(t, err)

	_, err = New(Config{}, Deps{Service: timeline.NewService(timeline.NewMemoryStore(), nil)})
	assert.Error(t, err)
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.doWithToken(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, schemas.Validate(schemas.Health, rec.Body.Bytes()))
}

func TestHandleHealth_StorageDown(t *testing.T) {
	ts := newTestServer(t, withPing(func(context.Context) error { return errors.New("connection refused") }))

	rec := ts.doWithToken(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := newTestServer(t)

	routes := []struct {
		method, path string
	}{
		{http.MethodGet, "/user"},
		{http.MethodPost, "/timelines"},
		{http.MethodGet, "/timelines/1"},
		{http.MethodPost, "/timelines/1/steps"},
		{http.MethodPost, "/steps/1/statuses"},
	}

	for _, route := range routes {
		for name, token := range map[string]string{"missing": "", "invalid": "not-a-jwt"} {
			t.Run(route.method+" "+route.path+" "+name, func(t *testing.T) {
				rec := ts.doWithToken(t, route.method, route.path, `{}`, token)
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				body := decodeError(t, rec)
				assert.Equal(t, "Unauthenticated.", body.Message)
				assert.Empty(t, body.Errors)
			})
		}
	}
}

func TestHandleUser(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, schemas.Validate(schemas.User, rec.Body.Bytes()))
	assert.JSONEq(t, `{"id": "1"}`, rec.Body.String())
}

func TestHandleCreateTimeline(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/timelines", fmt.Sprintf(
		`{"recruiter_id": %d, "candidate_name": "John", "candidate_surname": "Doe"}`, ts.sarah.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, schemas.Validate(schemas.TimelineResponse, rec.Body.Bytes()))

	var resp struct {
		Data types.Timeline `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ts.sarah.ID, resp.Data.RecruiterID)
	assert.NotZero(t, resp.Data.CandidateID)
	assert.Empty(t, resp.Data.Steps)

	candidate, err := ts.store.GetCandidate(context.Background(), resp.Data.CandidateID)
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, "John", candidate.Name)
	assert.Equal(t, "Doe", candidate.Surname)
}

func TestHandleCreateTimeline_Validation(t *testing.T) {
	ts := newTestServer(t)
	long := strings.Repeat("a", 256)

	tests := []struct {
		name        string
		body        string
		wantMessage string
		wantErrors  map[string][]string
	}{
		{
			name:        "empty body",
			body:        "",
			wantMessage: "The recruiter id field is required. (and 2 more errors)",
			wantErrors: map[string][]string{
				"recruiter_id":      {"The recruiter id field is required."},
				"candidate_name":    {"The candidate name field is required."},
				"candidate_surname": {"The candidate surname field is required."},
			},
		},
		{
			name:        "malformed json",
			body:        `{"recruiter_id":`,
			wantMessage: "The recruiter id field is required. (and 2 more errors)",
			wantErrors: map[string][]string{
				"recruiter_id":      {"The recruiter id field is required."},
				"candidate_name":    {"The candidate name field is required."},
				"candidate_surname": {"The candidate surname field is required."},
			},
		},
		{
			name:        "name too long",
			body:        fmt.Sprintf(`{"recruiter_id": 1, "candidate_name": %q, "candidate_surname": "Doe"}`, long),
			wantMessage: "The candidate name field must not be greater than 255 characters.",
			wantErrors: map[string][]string{
				"candidate_name": {"The candidate name field must not be greater than 255 characters."},
			},
		},
		{
			name:        "recruiter id as string",
			body:        `{"recruiter_id": "abc", "candidate_name": "John", "candidate_surname": "Doe"}`,
			wantMessage: "The recruiter id field must be an integer.",
			wantErrors: map[string][]string{
				"recruiter_id": {"The recruiter id field must be an integer."},
			},
		},
		{
			name:        "wrong types in two fields",
			body:        `{"recruiter_id": "abc", "candidate_name": 5, "candidate_surname": "Doe"}`,
			wantMessage: "The recruiter id field must be an integer. (and 1 more error)",
			wantErrors: map[string][]string{
				"recruiter_id":   {"The recruiter id field must be an integer."},
				"candidate_name": {"The candidate name field must be a string."},
			},
		},
		{
			name:        "unknown recruiter with missing name",
			body:        `{"recruiter_id": 99, "candidate_surname": "Doe"}`,
			wantMessage: "The selected recruiter id is invalid. (and 1 more error)",
			wantErrors: map[string][]string{
				"recruiter_id":   {"The selected recruiter id is invalid."},
				"candidate_name": {"The candidate name field is required."},
			},
		},
		{
			name:        "unknown recruiter",
			body:        `{"recruiter_id": 999, "candidate_name": "John", "candidate_surname": "Doe"}`,
			wantMessage: "The selected recruiter id is invalid.",
			wantErrors: map[string][]string{
				"recruiter_id": {"The selected recruiter id is invalid."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/timelines", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantErrors, body.Errors)
		})
	}
}

func TestHandleGetTimeline(t *testing.T) {
	ts := newTestServer(t)
	tl := ts.createTimeline(t, ts.sarah.ID)
	first := ts.createStep(t, tl, ts.interview.ID)
	second := ts.createStep(t, tl, ts.tech.ID)

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/steps/%d/statuses", first.ID), fmt.Sprintf(
		`{"candidate_id": %d, "recruiter_id": %d, "timeline_id": %d, "status_category_id": %d}`,
		tl.CandidateID, tl.RecruiterID, tl.ID, ts.complete.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/timelines/%d", tl.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, schemas.Validate(schemas.TimelineResponse, rec.Body.Bytes()), rec.Body.String())

	var resp struct {
		Data types.Timeline `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Steps, 2)
	assert.Equal(t, first.ID, resp.Data.Steps[0].ID)
	assert.Equal(t, second.ID, resp.Data.Steps[1].ID)

	require.NotNil(t, resp.Data.Steps[0].CurrentStatus)
	assert.Equal(t, ts.complete.ID, resp.Data.Steps[0].CurrentStatus.StatusCategoryID)
	require.NotNil(t, resp.Data.Steps[1].CurrentStatus)
	assert.Equal(t, ts.pending.ID, resp.Data.Steps[1].CurrentStatus.StatusCategoryID)
}

func TestHandleGetTimeline_NotFound(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/timelines/999", "/timelines/abc", "/timelines/0", "/timelines/-1"} {
		t.Run(path, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, path, "")
			assert.Equal(t, http.StatusNotFound, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "Timeline not found.", body.Message)
		})
	}
}

func TestHandleCreateStep(t *testing.T) {
	ts := newTestServer(t)
	tl := ts.createTimeline(t, ts.sarah.ID)

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/timelines/%d/steps", tl.ID), fmt.Sprintf(
		`{"candidate_id": %d, "recruiter_id": %d, "step_category_id": %d, "status_category_id": %d}`,
		tl.CandidateID, tl.RecruiterID, ts.interview.ID, ts.pending.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, schemas.Validate(schemas.StepResponse, rec.Body.Bytes()), rec.Body.String())

	var resp struct {
		Data types.Step `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, tl.ID, resp.Data.TimelineID)
	assert.Equal(t, ts.interview.ID, resp.Data.StepCategoryID)
	require.NotNil(t, resp.Data.CurrentStatus)
	assert.Equal(t, ts.pending.ID, resp.Data.CurrentStatus.StatusCategoryID)
	assert.Equal(t, resp.Data.ID, resp.Data.CurrentStatus.StepID)
}

func TestHandleCreateStep_DuplicateCategory(t *testing.T) {
	ts := newTestServer(t)
	tl := ts.createTimeline(t, ts.sarah.ID)
	ts.createStep(t, tl, ts.interview.ID)

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/timelines/%d/steps", tl.ID), fmt.Sprintf(
		`{"candidate_id": %d, "recruiter_id": %d, "step_category_id": %d, "status_category_id": %d}`,
		tl.CandidateID, tl.RecruiterID, ts.interview.ID, ts.pending.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "A step category needs to exist only once per timeline", body.Message)
	assert.Equal(t, []string{"A step category needs to exist only once per timeline"}, body.Errors["step_category"])
}

func TestHandleCreateStep_ForeignRecruiter(t *testing.T) {
	ts := newTestServer(t)
	tl := ts.createTimeline(t, ts.sarah.ID)

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/timelines/%d/steps", tl.ID), fmt.Sprintf(
		`{"candidate_id": %d, "recruiter_id": %d, "step_category_id": %d, "status_category_id": %d}`,
		tl.CandidateID, ts.michael.ID, ts.interview.ID, ts.pending.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Timeline does not belong to the recruiter", body.Message)
	assert.Contains(t, body.Errors, "timeline")
}

func TestHandleCreateStep_MissingTimelineBeforeValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/timelines/999/steps", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Timeline not found.", decodeError(t, rec).Message)
}

func TestHandleCreateStep_Validation(t *testing.T) {
	ts := newTestServer(t)
	tl := ts.createTimeline(t, ts.sarah.ID)

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/timelines/%d/steps", tl.ID),
		fmt.Sprintf(`{"candidate_id": %d}`, tl.CandidateID))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "The recruiter id field is required. (and 2 more errors)", body.Message)
	assert.Len(t, body.Errors, 3)
	assert.NotContains(t, body.Errors, "candidate_id")
}

func TestHandleCreateStep_ValidationWithUnknownReferences(t *testing.T) {
	ts := newTestServer(t)
	tl := ts.createTimeline(t, ts.sarah.ID)

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/timelines/%d/steps", tl.ID),
		`{"candidate_id": 999, "recruiter_id": "x", "step_category_id": 999}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "The selected candidate id is invalid. (and 3 more errors)", body.Message)
	assert.Equal(t, map[string][]string{
		"candidate_id":       {"The selected candidate id is invalid."},
		"recruiter_id":       {"The recruiter id field must be an integer."},
		"step_category_id":   {"The selected step category id is invalid."},
		"status_category_id": {"The status category id field is required."},
	}, body.Errors)
}

func TestHandleAppendStatus(t *testing.T) {
	ts := newTestServer(t)
	tl := ts.createTimeline(t, ts.sarah.ID)
	step := ts.createStep(t, tl, ts.interview.ID)

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/steps/%d/statuses", step.ID), fmt.Sprintf(
		`{"candidate_id": %d, "recruiter_id": %d, "timeline_id": %d, "status_category_id": %d}`,
		tl.CandidateID, tl.RecruiterID, tl.ID, ts.complete.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, schemas.Validate(schemas.StatusResponse, rec.Body.Bytes()), rec.Body.String())

	var resp struct {
		Data types.Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, step.ID, resp.Data.StepID)
	assert.Equal(t, ts.sarah.ID, resp.Data.RecruiterID)
	assert.Equal(t, ts.complete.ID, resp.Data.StatusCategoryID)
}

func TestHandleAppendStatus_Rejections(t *testing.T) {
	ts := newTestServer(t)
	tl := ts.createTimeline(t, ts.sarah.ID)
	other := ts.createTimeline(t, ts.sarah.ID)
	step := ts.createStep(t, tl, ts.interview.ID)
	path := fmt.Sprintf("/steps/%d/statuses", step.ID)

	t.Run("step on another timeline", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, path, fmt.Sprintf(
			`{"candidate_id": %d, "recruiter_id": %d, "timeline_id": %d, "status_category_id": %d}`,
			other.CandidateID, ts.sarah.ID, other.ID, ts.complete.ID))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Step does not belong to this timeline", body.Message)
	})

	t.Run("unknown status category", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, path, fmt.Sprintf(
			`{"candidate_id": %d, "recruiter_id": %d, "timeline_id": %d, "status_category_id": 999}`,
			tl.CandidateID, ts.sarah.ID, tl.ID))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, []string{"The selected status category id is invalid."}, body.Errors["status_category_id"])
	})

	t.Run("missing step", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/steps/999/statuses", `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Step not found.", decodeError(t, rec).Message)
	})
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, withRateLimit(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	}))

	for i := 0; i < 2; i++ {
		rec := ts.do(t, http.MethodGet, "/user", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := ts.do(t, http.MethodGet, "/user", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "Too Many Attempts.", decodeError(t, rec).Message)

	for i := 0; i < 5; i++ {
		rec := ts.doWithToken(t, http.MethodGet, "/health", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.doWithToken(t, http.MethodOptions, "/timelines", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.doWithToken(t, http.MethodGet, "/health", "", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestWithRecover(t *testing.T) {
	ts := newTestServer(t)
	h := ts.srv.withRecover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ServerErrorMessage, decodeError(t, rec).Message)
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	ts := newTestServer(t)
	closed := make(chan struct{})
	ts.srv.onClose = func() { close(closed) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.srv.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	<-closed
}
