package interview

import "github.com/yoockh/yoointerview/internal/feedback"

type State string

const (
	StateWaiting      State = "waiting"
	StateActive       State = "active"
	StateCompleted    State = "completed"
	StateDisconnected State = "disconnected"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateDisconnected
}

// Reason explains how a session reached its terminal state.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonJoinTimeout        Reason = "join_timeout"
	ReasonTimeUp             Reason = "time_up"
	ReasonQuestionsExhausted Reason = "questions_exhausted"
	ReasonEndedEarly         Reason = "ended_early"
)

// Outcome is the single terminal value of a session. Feedback is set only
// when State is StateCompleted.
type Outcome struct {
	SessionID string           `json:"session_id"`
	State     State            `json:"state"`
	Reason    Reason           `json:"reason"`
	Feedback  *feedback.Result `json:"feedback,omitempty"`
}

func (o Outcome) Completed() bool { return o.State == StateCompleted }
