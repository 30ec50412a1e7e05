package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/yoointerview/internal/services"
)

// CandidateHandler serves the candidate's actions. Every route is
// authorised by the join code instead of a JWT.
type CandidateHandler struct {
	svc services.InterviewService
}

func NewCandidateHandler(svc services.InterviewService) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

func (h *CandidateHandler) Join(c *gin.Context) {
	snap, err := h.svc.Join(c.Request.Context(), c.Param("id"), joinCode(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *CandidateHandler) StartRecording(c *gin.Context) {
	snap, err := h.svc.StartRecording(c.Request.Context(), c.Param("id"), joinCode(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *CandidateHandler) StopRecording(c *gin.Context) {
	answer, err := h.svc.StopRecording(c.Request.Context(), c.Param("id"), joinCode(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *CandidateHandler) Skip(c *gin.Context) {
	snap, err := h.svc.Skip(c.Request.Context(), c.Param("id"), joinCode(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
