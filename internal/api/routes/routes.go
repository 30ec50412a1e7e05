package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/yoointerview/internal/api/handlers"
	"github.com/yoockh/yoointerview/internal/api/middleware"
)

type Deps struct {
	Interviews *handlers.InterviewHandler
	Candidates *handlers.CandidateHandler
	Feedback   *handlers.FeedbackHandler
	Questions  *handlers.QuestionHandler
	WS         *handlers.WSHandler

	JWT     middleware.JWTConfig
	Metrics http.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	// Candidate routes (join code)
	cand := r.Group("/candidate")
	cand.POST("/interviews/:id/join", d.Candidates.Join)
	cand.POST("/interviews/:id/recording/start", d.Candidates.StartRecording)
	cand.POST("/interviews/:id/recording/stop", d.Candidates.StopRecording)
	cand.POST("/interviews/:id/skip", d.Candidates.Skip)
	if d.WS != nil {
		cand.GET("/ws/interviews/:id", d.WS.Candidate)
	}

	// Recruiter routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWT))

	auth.POST("/interviews", d.Interviews.Create)
	auth.GET("/interviews", d.Interviews.List)
	auth.GET("/interviews/:id", d.Interviews.Get)
	auth.GET("/interviews/:id/live", d.Interviews.Live)
	auth.POST("/interviews/:id/end", d.Interviews.End)
	auth.POST("/interviews/:id/close", d.Interviews.Close)
	auth.GET("/interviews/:id/transcripts", d.Interviews.Transcripts)

	auth.GET("/interviews/:id/feedback", d.Feedback.Get)
	auth.POST("/interviews/:id/feedback/notify", d.Feedback.Notify)
	auth.GET("/candidates/:candidate_id/feedback", d.Feedback.ListByCandidate)

	auth.GET("/questions/roles", d.Questions.Roles)
	auth.GET("/questions/:role", d.Questions.Bank)
	auth.PUT("/questions/:role", middleware.RequireAdmin(), d.Questions.Replace)

	// WebSocket
	if d.WS != nil {
		auth.GET("/ws/interviews/:id", d.WS.Watch)
	}
}
