package interview

import "errors"

var (
	ErrInvalidState     = errors.New("interview: action not allowed in current state")
	ErrNarrationPlaying = errors.New("interview: question narration is still playing")
	ErrBetweenQuestions = errors.New("interview: moving to the next question")
	ErrClosed           = errors.New("interview: session closed")
	ErrInvalidConfig    = errors.New("interview: invalid config")
)
