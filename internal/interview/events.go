package interview

import (
	"time"

	"github.com/yoockh/yoointerview/internal/feedback"
)

type EventType string

const (
	EventStateChanged      EventType = "state_changed"
	EventQuestionStarted   EventType = "question_started"
	EventNarrationFinished EventType = "narration_finished"
	EventQuestionTimedOut  EventType = "question_timed_out"
	EventRecordingStarted  EventType = "recording_started"
	EventAnswerRecorded    EventType = "answer_recorded"
	EventOutcome           EventType = "outcome"
)

// Event is a notable change in a session. Only the fields relevant to Type
// are set.
type Event struct {
	Type             EventType        `json:"type"`
	SessionID        string           `json:"session_id"`
	State            State            `json:"state"`
	QuestionIndex    int              `json:"question_index"`
	Question         string           `json:"question,omitempty"`
	TimeLimitSeconds int              `json:"time_limit_seconds,omitempty"`
	Answer           *feedback.Answer `json:"answer,omitempty"`
	Reason           Reason           `json:"reason,omitempty"`
	At               time.Time        `json:"at"`
}

// EventFunc adapts a function to EventSink.
type EventFunc func(Event)

func (f EventFunc) Publish(e Event) { f(e) }
