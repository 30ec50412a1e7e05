// Package interview implements the voice interview session: a timer-driven
// state machine that waits for the candidate, narrates each question, records
// answers and produces a single terminal outcome.
package interview

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/yoointerview/internal/feedback"
	"github.com/yoockh/yoointerview/internal/questions"
)

// Session serialises every transition under mu. Timer callbacks and public
// actions collect their side effects while locked and flush them afterwards.
type Session struct {
	cfg  Config
	deps Deps
	log  *logrus.Entry

	mu sync.Mutex

	// outMu guards the effect queue drained outside mu. Lock order is mu
	// then outMu.
	outMu    sync.Mutex
	outbox   []effects
	draining bool

	narrMu     sync.Mutex
	narrQueue  []string
	speaking   bool
	narrClosed bool

	state     State
	reason    Reason
	opened    bool
	closed    bool
	questions []questions.Question

	index             int
	playing           bool
	transitioning     bool
	questionRemaining int

	recording        bool
	recordingSeconds int
	recordingVoice   bool
	hasSpoken        bool
	answers          []feedback.Answer

	joinRemaining    int
	overallRemaining int
	overallElapsed   int

	timers [timerCount]timerSlot
	gen    uint64

	pending      effects
	outcomeSent  bool
	done         chan Outcome
	finalOutcome *Outcome
}

type effects struct {
	events    []Event
	narration []string
	outcome   *Outcome
}

func New(cfg Config, deps Deps) (*Session, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	deps = deps.withDefaults()

	return &Session{
		cfg:       cfg,
		deps:      deps,
		log:       deps.Logger.WithField("session_id", cfg.SessionID),
		state:     StateWaiting,
		questions: questions.WithIntroduction(cfg.Questions),
		done:      make(chan Outcome, 1),
	}, nil
}

func (s *Session) ID() string { return s.cfg.SessionID }

// Done yields the terminal outcome once and is then closed. It is closed
// without a value when the session is closed before reaching a terminal
// state.
func (s *Session) Done() <-chan Outcome { return s.done }

// Open starts the join countdown.
func (s *Session) Open() error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.opened || s.state != StateWaiting {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.opened = true
	s.joinRemaining = seconds(s.cfg.JoinWait)
	s.armJoinTick()
	s.emit(Event{Type: EventStateChanged})
	s.log.WithField("join_wait_seconds", s.joinRemaining).Info("interview waiting for candidate")
	s.unlockAndFlush()
	return nil
}

// Join admits the candidate and starts the first question.
func (s *Session) Join() error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.state != StateWaiting {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.disarm(timerJoin)
	s.state = StateActive
	s.overallRemaining = s.cfg.DurationMinutes * 60
	s.armOverallTick()
	s.emit(Event{Type: EventStateChanged})
	s.log.WithField("questions", len(s.questions)).Info("candidate joined interview")
	s.startQuestion(0)
	s.unlockAndFlush()
	return nil
}

// End terminates an active interview early and produces feedback.
func (s *Session) End() error {
	s.mu.Lock()
	if err := s.guard(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.state != StateActive {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.complete(ReasonEndedEarly)
	s.unlockAndFlush()
	return nil
}

// Close tears the session down from any state. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.recording = false
	s.teardown()
	s.narrMu.Lock()
	s.narrQueue = nil
	s.narrClosed = true
	s.narrMu.Unlock()
	if !s.outcomeSent {
		s.outcomeSent = true
		close(s.done)
	}
	s.log.WithField("state", s.state).Info("interview closed")
}

func (s *Session) guard() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Session) emit(e Event) {
	e.SessionID = s.cfg.SessionID
	e.State = s.state
	if e.Type != EventStateChanged && e.Type != EventOutcome {
		e.QuestionIndex = s.index
	}
	e.At = s.deps.Now()
	s.pending.events = append(s.pending.events, e)
}

// unlockAndFlush queues the collected effects and releases mu. The first
// caller to find the queue idle delivers it, so effects keep the order in
// which they were produced and no caller waits on another's delivery while
// holding mu.
func (s *Session) unlockAndFlush() {
	fx := s.pending
	s.pending = effects{}
	s.outMu.Lock()
	s.outbox = append(s.outbox, fx)
	if s.draining {
		s.outMu.Unlock()
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.outMu.Unlock()
	s.mu.Unlock()

	for {
		s.outMu.Lock()
		batch := s.outbox
		s.outbox = nil
		if len(batch) == 0 {
			s.draining = false
			s.outMu.Unlock()
			return
		}
		s.outMu.Unlock()
		for _, fx := range batch {
			s.deliver(fx)
		}
	}
}

func (s *Session) deliver(fx effects) {
	if s.deps.Events != nil {
		for _, e := range fx.events {
			s.deps.Events.Publish(e)
		}
	}
	for _, text := range fx.narration {
		s.queueNarration(text)
	}
	if fx.outcome != nil {
		s.done <- *fx.outcome
		close(s.done)
	}
}

// queueNarration hands text to the narration goroutine, starting one when
// none is running. Texts are spoken in order.
func (s *Session) queueNarration(text string) {
	if s.deps.Narrator == nil {
		return
	}
	s.narrMu.Lock()
	defer s.narrMu.Unlock()
	if s.narrClosed {
		return
	}
	s.narrQueue = append(s.narrQueue, text)
	if !s.speaking {
		s.speaking = true
		go s.speak()
	}
}

func (s *Session) speak() {
	for {
		s.narrMu.Lock()
		if len(s.narrQueue) == 0 {
			s.speaking = false
			s.narrMu.Unlock()
			return
		}
		text := s.narrQueue[0]
		s.narrQueue = s.narrQueue[1:]
		s.narrMu.Unlock()
		s.narrate(text)
	}
}

func (s *Session) narrate(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NarrationTimeout)
	defer cancel()
	if err := s.deps.Narrator.Narrate(ctx, s.cfg.SessionID, text); err != nil {
		s.log.WithError(err).Warn("narration failed, continuing without audio")
	}
}

func (s *Session) armJoinTick() {
	s.arm(timerJoin, tick, func() {
		s.joinRemaining--
		if s.joinRemaining <= 0 {
			s.disconnect()
			return
		}
		s.armJoinTick()
	})
}

func (s *Session) armOverallTick() {
	s.arm(timerOverall, tick, func() {
		s.overallElapsed++
		s.overallRemaining--
		if s.overallRemaining <= 0 {
			s.complete(ReasonTimeUp)
			return
		}
		s.armOverallTick()
	})
}
