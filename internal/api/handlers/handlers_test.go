package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/yoointerview/internal/api/middleware"
	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/utils"
)

type testEnv struct {
	router     *gin.Engine
	interviews *fakeInterviews
	feedback   *fakeFeedback
	questions  *fakeQuestions
}

// asPrincipal stands in for JWTAuth: the X-Test-User header becomes the
// caller and X-Test-Role its role.
func asPrincipal(c *gin.Context) {
	id := c.GetHeader("X-Test-User")
	if id == "" {
		c.Next()
		return
	}
	role := models.UserRole(c.GetHeader("X-Test-Role"))
	if role == "" {
		role = models.RoleRecruiter
	}
	c.Set(middleware.CtxUserID, id)
	c.Set(middleware.CtxRole, string(role))
	c.Set(middleware.CtxPrincipal, models.Principal{ID: id, Role: role})
	c.Next()
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		interviews: newFakeInterviews(),
		feedback:   newFakeFeedback(),
		questions:  &fakeQuestions{},
	}

	ih := NewInterviewHandler(env.interviews, &fakeTranscripts{rows: []models.AnswerTranscript{{SessionID: "s-1", QuestionIndex: 0, Text: "hello"}}})
	ch := NewCandidateHandler(env.interviews)
	fh := NewFeedbackHandler(env.feedback, env.interviews)
	qh := NewQuestionHandler(env.questions)

	r := gin.New()
	cand := r.Group("/candidate")
	cand.POST("/interviews/:id/join", ch.Join)
	cand.POST("/interviews/:id/recording/stop", ch.StopRecording)
	cand.POST("/interviews/:id/skip", ch.Skip)

	auth := r.Group("/", asPrincipal)
	auth.POST("/interviews", ih.Create)
	auth.GET("/interviews", ih.List)
	auth.GET("/interviews/:id", ih.Get)
	auth.GET("/interviews/:id/live", ih.Live)
	auth.POST("/interviews/:id/end", ih.End)
	auth.POST("/interviews/:id/close", ih.Close)
	auth.GET("/interviews/:id/transcripts", ih.Transcripts)
	auth.GET("/interviews/:id/feedback", fh.Get)
	auth.POST("/interviews/:id/feedback/notify", fh.Notify)
	auth.GET("/candidates/:candidate_id/feedback", fh.ListByCandidate)
	auth.GET("/questions/roles", qh.Roles)
	auth.GET("/questions/:role", qh.Bank)
	auth.PUT("/questions/:role", qh.Replace)

	env.router = r
	return env
}

type reqOpt func(*http.Request)

func asUser(id string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-Test-User", id) }
}

func asAdmin(id string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set("X-Test-User", id)
		r.Header.Set("X-Test-Role", string(models.RoleAdmin))
	}
}

func withCode(code string) reqOpt {
	return func(r *http.Request) { r.Header.Set(JoinCodeHeader, code) }
}

func (e *testEnv) do(method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var out APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestInterviewHandler_Create(t *testing.T) {
	env := newTestEnv()

	body := `{"candidate_id":"cand-1","candidate_name":"Sarah Chen","candidate_email":"sarah@example.com","position":"Backend Developer"}`
	w := env.do(http.MethodPost, "/interviews", body, asUser("rec-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	var out struct {
		JoinCode string `json:"join_code"`
		Session  struct {
			RecruiterID string `json:"recruiter_id"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "ABCD2345", out.JoinCode)
	assert.Equal(t, "rec-1", out.Session.RecruiterID)

	require.Len(t, env.interviews.created, 1)
	assert.Equal(t, "rec-1", env.interviews.created[0].RecruiterID)
}

func TestInterviewHandler_CreateRejects(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodPost, "/interviews", `{"candidate_id":"c"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/interviews", `{"candidate_id":"c","candidate_name":"x"}`, asUser("rec-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.CodeInvalidArgument, decodeError(t, w).Code)

	w = env.do(http.MethodPost, "/interviews", `{"candidate_id":"c","candidate_name":"x","position":"p","duration_minutes":999}`, asUser("rec-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.interviews.err = utils.E(utils.CodeUnavailable, "fake.Create", "question bank unavailable", nil)
	w = env.do(http.MethodPost, "/interviews", `{"candidate_id":"c","candidate_name":"x","position":"p"}`, asUser("rec-1"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "question bank unavailable", decodeError(t, w).Message)
}

func TestInterviewHandler_OwnershipIsEnforced(t *testing.T) {
	env := newTestEnv()
	env.interviews.add("s-1", "rec-1", "CODE2345")

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/interviews/s-1", "", asUser("rec-1")).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/interviews/s-1", "", asUser("rec-2")).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/interviews/s-1", "", asAdmin("adm-1")).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/interviews/missing", "", asUser("rec-1")).Code)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/interviews/s-1/end", "", asUser("rec-2")).Code)
	assert.Empty(t, env.interviews.ended)
}

func TestInterviewHandler_LifecycleRoutes(t *testing.T) {
	env := newTestEnv()
	env.interviews.add("s-1", "rec-1", "CODE2345")

	w := env.do(http.MethodGet, "/interviews/s-1/live", "", asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"active"`)

	w = env.do(http.MethodPost, "/interviews/s-1/end", "", asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ended_early"`)
	assert.Equal(t, []string{"s-1"}, env.interviews.ended)

	w = env.do(http.MethodPost, "/interviews/s-1/close", "", asUser("rec-1"))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"s-1"}, env.interviews.closed)

	w = env.do(http.MethodGet, "/interviews/s-1/transcripts", "", asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hello"`)

	w = env.do(http.MethodGet, "/interviews", "", asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"s-1"`)
}

func TestCandidateHandler_JoinCode(t *testing.T) {
	env := newTestEnv()
	env.interviews.add("s-1", "rec-1", "CODE2345")

	w := env.do(http.MethodPost, "/candidate/interviews/s-1/join", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/candidate/interviews/s-1/join", "", withCode("WRONG234"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/candidate/interviews/s-1/join", "", withCode("CODE2345"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/candidate/interviews/s-1/skip?code=CODE2345", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/candidate/interviews/s-1/recording/stop", "", withCode("CODE2345"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"voice_detected":true`)

	assert.Equal(t, []string{"join", "skip", "stop"}, env.interviews.calls)
}

func TestFeedbackHandler(t *testing.T) {
	env := newTestEnv()
	env.interviews.add("s-1", "rec-1", "CODE2345")
	env.feedback.rows["s-1"] = &models.InterviewFeedback{SessionID: "s-1", RecruiterID: "rec-1", CandidateID: "cand-1", OverallScore: 82}

	w := env.do(http.MethodGet, "/interviews/s-1/feedback", "", asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"overall_score":82`)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/interviews/s-1/feedback", "", asUser("rec-2")).Code)

	w = env.do(http.MethodPost, "/interviews/s-1/feedback/notify", `{"email":"not-an-email"}`, asUser("rec-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/interviews/s-1/feedback/notify", `{"email":"sarah@example.com"}`, asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"sent"`)
	assert.Equal(t, "sarah@example.com", env.feedback.notified["s-1"])

	w = env.do(http.MethodPost, "/interviews/s-1/feedback/notify", "", asUser("rec-1"))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodGet, "/candidates/cand-1/feedback", "", asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cand-1"`)
}

func TestFeedbackHandler_ListByCandidateIsScopedToRecruiter(t *testing.T) {
	env := newTestEnv()
	env.feedback.rows["s-9"] = &models.InterviewFeedback{
		SessionID:      "s-9",
		RecruiterID:    "rec-1",
		CandidateID:    "cand-9",
		CandidateEmail: "private@example.com",
		OverallScore:   64,
	}

	w := env.do(http.MethodGet, "/candidates/cand-9/feedback", "", asUser("rec-other"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "private@example.com")
	assert.JSONEq(t, `{"feedback":null}`, w.Body.String())

	w = env.do(http.MethodGet, "/candidates/cand-9/feedback", "", asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "private@example.com")

	w = env.do(http.MethodGet, "/candidates/cand-9/feedback", "", asAdmin("adm-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "private@example.com")
}

func TestQuestionHandler(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/questions/roles", "", asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "backend developer")

	w = env.do(http.MethodGet, "/questions/Backend%20Developer", "", asUser("rec-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"backend developer"`)

	w = env.do(http.MethodPut, "/questions/backend", `{"questions":[]}`, asAdmin("adm-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPut, "/questions/backend", `{"questions":[{"id":1,"text":"Explain indexes.","time_limit_seconds":60}]}`, asAdmin("adm-1"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.questions.replaced["backend"], 1)
	assert.Equal(t, "Explain indexes.", env.questions.replaced["backend"][0].Text)
}
