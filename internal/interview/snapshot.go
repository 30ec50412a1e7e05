package interview

import (
	"github.com/yoockh/yoointerview/internal/feedback"
	"github.com/yoockh/yoointerview/internal/questions"
)

// Snapshot is a read-only view of a session for presentation.
type Snapshot struct {
	SessionID         string             `json:"session_id"`
	CandidateID       string             `json:"candidate_id"`
	CandidateName     string             `json:"candidate_name"`
	Position          string             `json:"position"`
	State             State              `json:"state"`
	Reason            Reason             `json:"reason,omitempty"`
	QuestionIndex     int                `json:"question_index"`
	TotalQuestions    int                `json:"total_questions"`
	Question          questions.Question `json:"question"`
	Playing           bool               `json:"playing"`
	Transitioning     bool               `json:"transitioning"`
	Recording         bool               `json:"recording"`
	RecordingSeconds  int                `json:"recording_seconds"`
	QuestionRemaining int                `json:"question_remaining_seconds"`
	OverallRemaining  int                `json:"overall_remaining_seconds"`
	JoinRemaining     int                `json:"join_remaining_seconds"`
	ElapsedSeconds    int                `json:"elapsed_seconds"`
	HasSpoken         bool               `json:"has_spoken"`
	Answers           []feedback.Answer  `json:"answers"`
	PendingTimers     int                `json:"pending_timers"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SessionID:         s.cfg.SessionID,
		CandidateID:       s.cfg.CandidateID,
		CandidateName:     s.cfg.CandidateName,
		Position:          s.cfg.Position,
		State:             s.state,
		Reason:            s.reason,
		QuestionIndex:     s.index,
		TotalQuestions:    len(s.questions),
		Question:          s.questions[s.index],
		Playing:           s.playing,
		Transitioning:     s.transitioning,
		Recording:         s.recording,
		RecordingSeconds:  s.recordingSeconds,
		QuestionRemaining: s.questionRemaining,
		OverallRemaining:  s.overallRemaining,
		JoinRemaining:     s.joinRemaining,
		ElapsedSeconds:    s.overallElapsed,
		HasSpoken:         s.hasSpoken,
		Answers:           append([]feedback.Answer(nil), s.answers...),
		PendingTimers:     s.armedTimers(),
	}
}

// Questions returns the full question list, introduction first.
func (s *Session) Questions() []questions.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]questions.Question(nil), s.questions...)
}
