package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yoockh/yoointerview/internal/api/handlers"
	"github.com/yoockh/yoointerview/internal/api/middleware"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{
		Interviews: handlers.NewInterviewHandler(nil, nil),
		Candidates: handlers.NewCandidateHandler(nil),
		Feedback:   handlers.NewFeedbackHandler(nil, nil),
		Questions:  handlers.NewQuestionHandler(nil),
		JWT:        middleware.JWTConfig{Secret: "secret"},
		Metrics:    http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
	})
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRoutes_PublicEndpoints(t *testing.T) {
	r := newEngine()

	w := serve(r, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics", w.Body.String())
}

func TestRoutes_RecruiterRoutesNeedToken(t *testing.T) {
	r := newEngine()

	for _, rt := range []struct{ method, path string }{
		{http.MethodPost, "/interviews"},
		{http.MethodGet, "/interviews"},
		{http.MethodGet, "/interviews/s-1"},
		{http.MethodPost, "/interviews/s-1/end"},
		{http.MethodGet, "/interviews/s-1/feedback"},
		{http.MethodGet, "/candidates/c-1/feedback"},
		{http.MethodGet, "/questions/roles"},
		{http.MethodPut, "/questions/backend"},
	} {
		w := serve(r, rt.method, rt.path)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
}
