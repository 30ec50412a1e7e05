package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/services"
	"github.com/yoockh/yoointerview/internal/utils"
)

// InterviewHandler serves the recruiter side of an interview.
type InterviewHandler struct {
	svc         services.InterviewService
	transcripts services.TranscriptService
}

func NewInterviewHandler(svc services.InterviewService, transcripts services.TranscriptService) *InterviewHandler {
	return &InterviewHandler{svc: svc, transcripts: transcripts}
}

type CreateInterviewRequest struct {
	CandidateID     string `json:"candidate_id" binding:"required"`
	CandidateName   string `json:"candidate_name" binding:"required"`
	CandidateEmail  string `json:"candidate_email" binding:"omitempty,email"`
	Position        string `json:"position" binding:"required"`
	Role            string `json:"role"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=180"`
}

func (h *InterviewHandler) Create(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Create", "invalid request body", err))
		return
	}

	created, err := h.svc.Create(c.Request.Context(), services.CreateInterviewInput{
		RecruiterID:     p.ID,
		CandidateID:     req.CandidateID,
		CandidateName:   req.CandidateName,
		CandidateEmail:  req.CandidateEmail,
		Position:        req.Position,
		Role:            req.Role,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *InterviewHandler) List(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	out, err := h.svc.ListByRecruiter(c.Request.Context(), p.ID, int64(queryLimit(c, 20, 100)))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": out})
}

// authorized loads the interview named in the path and checks ownership.
func (h *InterviewHandler) authorized(c *gin.Context, op string) (*models.InterviewSession, bool) {
	p, ok := requirePrincipal(c)
	if !ok {
		return nil, false
	}
	sess, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if !canAccess(p, sess) {
		writeError(c, utils.E(utils.CodeForbidden, op, "forbidden", nil))
		return nil, false
	}
	return sess, true
}

func (h *InterviewHandler) Get(c *gin.Context) {
	sess, ok := h.authorized(c, "InterviewHandler.Get")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *InterviewHandler) Live(c *gin.Context) {
	sess, ok := h.authorized(c, "InterviewHandler.Live")
	if !ok {
		return
	}
	snap, err := h.svc.Live(c.Request.Context(), sess.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *InterviewHandler) End(c *gin.Context) {
	sess, ok := h.authorized(c, "InterviewHandler.End")
	if !ok {
		return
	}
	out, err := h.svc.End(c.Request.Context(), sess.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) Close(c *gin.Context) {
	sess, ok := h.authorized(c, "InterviewHandler.Close")
	if !ok {
		return
	}
	if err := h.svc.Close(c.Request.Context(), sess.SessionID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InterviewHandler) Transcripts(c *gin.Context) {
	sess, ok := h.authorized(c, "InterviewHandler.Transcripts")
	if !ok {
		return
	}
	rows, err := h.transcripts.ListBySession(c.Request.Context(), sess.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sess.SessionID, "transcripts": rows})
}
