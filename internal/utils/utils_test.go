package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Format(t *testing.T) {
	base := errors.New("boom")
	assert.Equal(t, "Svc.Op: bad input: boom", E(CodeInvalidArgument, "Svc.Op", "bad input", base).Error())
	assert.Equal(t, "Svc.Op: bad input", E(CodeInvalidArgument, "Svc.Op", "bad input", nil).Error())
	assert.Equal(t, "Svc.Op: boom", E(CodeInternal, "Svc.Op", "", base).Error())
	assert.Equal(t, "error", (&AppError{}).Error())

	var nilErr *AppError
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestCodeAndStatus(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", E(CodeConflict, "Svc.Op", "busy", nil))
	assert.Equal(t, CodeConflict, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeConflict))
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
	assert.Equal(t, "busy", PublicMessage(wrapped))

	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("repo: %w", ErrNotFound)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("x")))
	assert.Equal(t, "internal error", PublicMessage(errors.New("x")))
	assert.False(t, IsCode(nil, CodeInternal))
}

func TestJoinCode(t *testing.T) {
	code := NewJoinCode()
	require.Len(t, code, 8)
	assert.Equal(t, code, NormalizeJoinCode(" "+code[:4]+" "+code[4:]))

	hash, err := HashSecret(code)
	require.NoError(t, err)
	assert.NoError(t, CheckSecret(hash, code))
	assert.Error(t, CheckSecret(hash, "WRONG123"))
}
