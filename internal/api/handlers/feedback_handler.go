package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/yoointerview/internal/services"
	"github.com/yoockh/yoointerview/internal/utils"
)

type FeedbackHandler struct {
	feedback   services.FeedbackService
	interviews services.InterviewService
}

func NewFeedbackHandler(feedback services.FeedbackService, interviews services.InterviewService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, interviews: interviews}
}

func (h *FeedbackHandler) owned(c *gin.Context, op string) (string, bool) {
	p, ok := requirePrincipal(c)
	if !ok {
		return "", false
	}
	sess, err := h.interviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return "", false
	}
	if !canAccess(p, sess) {
		writeError(c, utils.E(utils.CodeForbidden, op, "forbidden", nil))
		return "", false
	}
	return sess.SessionID, true
}

func (h *FeedbackHandler) Get(c *gin.Context) {
	id, ok := h.owned(c, "FeedbackHandler.Get")
	if !ok {
		return
	}
	out, err := h.feedback.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type NotifyRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

func (h *FeedbackHandler) Notify(c *gin.Context) {
	id, ok := h.owned(c, "FeedbackHandler.Notify")
	if !ok {
		return
	}

	var req NotifyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "FeedbackHandler.Notify", "invalid request body", err))
			return
		}
	}

	kind, err := h.feedback.Notify(c.Request.Context(), id, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "email": kind, "status": "sent"})
}

func (h *FeedbackHandler) ListByCandidate(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	recruiterID := p.ID
	if p.IsAdmin() {
		recruiterID = ""
	}
	out, err := h.feedback.ListByCandidate(c.Request.Context(), c.Param("candidate_id"), recruiterID, queryLimit(c, 20, 100))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": out})
}
