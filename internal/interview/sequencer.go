package interview

// startQuestion narrates question i and arms the settle delay, after which
// the per-question countdown starts.
func (s *Session) startQuestion(i int) {
	if s.state != StateActive || i < s.index || i >= len(s.questions) {
		return
	}
	q := s.questions[i]
	s.index = i
	s.questionRemaining = q.TimeLimitSeconds
	s.playing = true
	s.transitioning = false

	s.emit(Event{Type: EventQuestionStarted, Question: q.Text, TimeLimitSeconds: q.TimeLimitSeconds})
	s.pending.narration = append(s.pending.narration, q.Text)
	s.log.WithField("question_index", i).Debug("question started")

	s.arm(timerSettle, s.cfg.SettleDelay, func() {
		s.playing = false
		s.emit(Event{Type: EventNarrationFinished})
		s.armQuestionTick()
	})
}

func (s *Session) armQuestionTick() {
	s.arm(timerQuestion, tick, func() {
		s.questionRemaining--
		if s.questionRemaining <= 0 {
			s.emit(Event{Type: EventQuestionTimedOut})
			s.log.WithField("question_index", s.index).Info("question timed out")
			s.advance()
			return
		}
		s.armQuestionTick()
	})
}

// advance closes the current question and either completes the session or
// schedules the next question after the transition delay.
func (s *Session) advance() {
	if s.state != StateActive {
		return
	}
	s.disarm(timerSettle)
	s.disarm(timerAnswer)
	s.disarm(timerQuestion)
	s.playing = false
	if s.recording {
		s.finishRecording()
	}
	s.padAnswer()

	if s.index >= len(s.questions)-1 {
		s.complete(ReasonQuestionsExhausted)
		return
	}

	next := s.index + 1
	s.transitioning = true
	s.arm(timerTransition, s.cfg.TransitionDelay, func() {
		s.startQuestion(next)
	})
}

// Skip abandons the current question. It follows the same path as a
// question timeout.
func (s *Session) Skip() error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.state != StateActive {
		s.mu.Unlock()
		return ErrInvalidState
	}
	if s.transitioning {
		s.mu.Unlock()
		return ErrBetweenQuestions
	}
	s.log.WithField("question_index", s.index).Info("question skipped")
	s.advance()
	s.unlockAndFlush()
	return nil
}
