package interview

import "github.com/yoockh/yoointerview/internal/feedback"

// StartRecording begins capturing the answer to the current question. It is a
// no-op when a recording is already running.
func (s *Session) StartRecording() error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}
	switch {
	case s.state != StateActive:
		s.mu.Unlock()
		return ErrInvalidState
	case s.playing:
		s.log.WithField("question_index", s.index).Warn("recording rejected while narration plays")
		s.mu.Unlock()
		return ErrNarrationPlaying
	case s.transitioning:
		s.mu.Unlock()
		return ErrBetweenQuestions
	case s.recording:
		s.mu.Unlock()
		return nil
	}

	s.recording = true
	s.recordingSeconds = 0
	s.recordingVoice = false
	s.armRecordingTick()
	s.emit(Event{Type: EventRecordingStarted})
	s.unlockAndFlush()
	return nil
}

// StopRecording stores the answer and moves on after the answer delay. ok is
// false when nothing was recording.
func (s *Session) StopRecording() (answer feedback.Answer, ok bool) {
	s.mu.Lock()
	if s.closed || s.state != StateActive || !s.recording {
		s.mu.Unlock()
		return feedback.Answer{}, false
	}

	answer = s.finishRecording()
	s.disarm(timerQuestion)
	s.transitioning = true
	s.arm(timerAnswer, s.cfg.AnswerDelay, s.advance)
	s.unlockAndFlush()
	return answer, true
}

func (s *Session) armRecordingTick() {
	s.arm(timerRecording, tick, func() {
		s.recordingSeconds++
		if !s.recordingVoice && s.recordingSeconds >= seconds(s.cfg.ActivityThreshold) {
			s.recordingVoice = true
			s.hasSpoken = true
		}
		s.armRecordingTick()
	})
}

// finishRecording halts the accumulator and appends the answer for the
// current question.
func (s *Session) finishRecording() feedback.Answer {
	s.disarm(timerRecording)
	s.recording = false

	a := feedback.NewAnswer(s.index, s.recordingSeconds, s.recordingVoice)
	if len(s.answers) == s.index {
		s.answers = append(s.answers, a)
		s.emit(Event{Type: EventAnswerRecorded, Answer: &a})
		s.log.WithFields(logFields(a)).Info("answer recorded")
	}
	return a
}

// padAnswer keeps answers positional with questions by recording a none
// answer for a question left unanswered.
func (s *Session) padAnswer() {
	for len(s.answers) <= s.index {
		a := feedback.NoAnswer(len(s.answers))
		s.answers = append(s.answers, a)
		s.emit(Event{Type: EventAnswerRecorded, Answer: &a})
	}
}
