package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/yoointerview/internal/questions"
	"github.com/yoockh/yoointerview/internal/services"
	"github.com/yoockh/yoointerview/internal/utils"
)

type QuestionHandler struct {
	svc services.QuestionService
}

func NewQuestionHandler(svc services.QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

func (h *QuestionHandler) Roles(c *gin.Context) {
	roles, err := h.svc.Roles(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

func (h *QuestionHandler) Bank(c *gin.Context) {
	bank, err := h.svc.Bank(c.Request.Context(), c.Param("role"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bank)
}

type ReplaceBankRequest struct {
	Questions []questions.Question `json:"questions" binding:"required,min=1"`
}

func (h *QuestionHandler) Replace(c *gin.Context) {
	var req ReplaceBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "QuestionHandler.Replace", "invalid request body", err))
		return
	}
	bank, err := h.svc.Replace(c.Request.Context(), c.Param("role"), req.Questions)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bank)
}
