package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/yoointerview/internal/api/middleware"
	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/utils"
)

// JoinCodeHeader carries the candidate's join code.
const JoinCodeHeader = "X-Join-Code"

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requirePrincipal(c *gin.Context) (models.Principal, bool) {
	if v, ok := c.Get(middleware.CtxPrincipal); ok {
		if p, ok := v.(models.Principal); ok && p.ID != "" {
			return p, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return models.Principal{}, false
}

// canAccess reports whether p may manage the interview. Admins see every
// interview; recruiters only their own.
func canAccess(p models.Principal, sess *models.InterviewSession) bool {
	return p.IsAdmin() || sess.RecruiterID == p.ID
}

func joinCode(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(JoinCodeHeader)); v != "" {
		return v
	}
	return c.Query("code")
}

func queryLimit(c *gin.Context, def, max int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
