package interview

import (
	"github.com/sirupsen/logrus"

	"github.com/yoockh/yoointerview/internal/feedback"
)

// complete is the single completion path shared by time up, question
// exhaustion and manual end.
func (s *Session) complete(reason Reason) {
	if s.state != StateActive {
		return
	}
	s.teardown()
	if s.recording {
		s.finishRecording()
	}
	s.padAnswer()
	s.state = StateCompleted
	s.reason = reason
	s.playing = false
	s.transitioning = false

	res := s.deps.Generator.Generate(feedback.Input{
		CandidateID:    s.cfg.CandidateID,
		CandidateName:  s.cfg.CandidateName,
		Position:       s.cfg.Position,
		Answers:        append([]feedback.Answer(nil), s.answers...),
		TotalQuestions: len(s.questions),
		HasSpoken:      s.hasSpoken,
		ElapsedSeconds: s.overallElapsed,
	})

	s.log.WithFields(logrus.Fields{
		"reason":         reason,
		"overall_score":  res.OverallScore,
		"recommendation": res.Recommendation,
	}).Info("interview completed")
	s.emit(Event{Type: EventStateChanged, Reason: reason})
	s.finish(Outcome{SessionID: s.cfg.SessionID, State: StateCompleted, Reason: reason, Feedback: &res})
}

// disconnect ends a session whose candidate never joined. No feedback is
// produced.
func (s *Session) disconnect() {
	if s.state != StateWaiting {
		return
	}
	s.state = StateDisconnected
	s.reason = ReasonJoinTimeout
	s.teardown()

	s.log.Info("candidate did not join in time")
	s.emit(Event{Type: EventStateChanged, Reason: ReasonJoinTimeout})
	s.finish(Outcome{SessionID: s.cfg.SessionID, State: StateDisconnected, Reason: ReasonJoinTimeout})
}

func (s *Session) finish(o Outcome) {
	s.finalOutcome = &o
	s.emit(Event{Type: EventOutcome, Reason: o.Reason})
	if s.outcomeSent {
		return
	}
	s.outcomeSent = true
	s.pending.outcome = &o
}

// Outcome returns the terminal outcome once the session has produced one.
func (s *Session) Outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalOutcome == nil {
		return Outcome{}, false
	}
	return *s.finalOutcome, true
}

func logFields(a feedback.Answer) logrus.Fields {
	return logrus.Fields{
		"question_index": a.QuestionIndex,
		"seconds":        a.Seconds,
		"bucket":         a.Bucket,
	}
}
