package interview

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/yoointerview/internal/feedback"
	"github.com/yoockh/yoointerview/internal/questions"
	"github.com/yoockh/yoointerview/internal/scheduler"
)

const (
	DefaultJoinWait          = 300 * time.Second
	DefaultSettleDelay       = 3 * time.Second
	DefaultTransitionDelay   = 2 * time.Second
	DefaultAnswerDelay       = 1 * time.Second
	DefaultActivityThreshold = 3 * time.Second
	DefaultNarrationTimeout  = 5 * time.Second
)

// Config describes one interview. Questions is the role bank; the
// introduction question is prepended by New. Zero durations take defaults.
type Config struct {
	SessionID       string
	CandidateID     string
	CandidateName   string
	Position        string
	DurationMinutes int
	Questions       []questions.Question

	JoinWait          time.Duration
	SettleDelay       time.Duration
	TransitionDelay   time.Duration
	AnswerDelay       time.Duration
	ActivityThreshold time.Duration
	NarrationTimeout  time.Duration
}

// Narrator speaks question text to the candidate. Failures are logged and
// never block the session.
type Narrator interface {
	Narrate(ctx context.Context, sessionID, text string) error
}

// EventSink receives session events after the session lock is released.
// Implementations must not call methods on the session synchronously.
type EventSink interface {
	Publish(Event)
}

type FeedbackGenerator interface {
	Generate(in feedback.Input) feedback.Result
}

type Deps struct {
	Scheduler scheduler.Scheduler
	Narrator  Narrator
	Generator FeedbackGenerator
	Events    EventSink
	Logger    *logrus.Entry
	Now       func() time.Time
}

func (c Config) withDefaults() Config {
	if c.JoinWait == 0 {
		c.JoinWait = DefaultJoinWait
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.TransitionDelay == 0 {
		c.TransitionDelay = DefaultTransitionDelay
	}
	if c.AnswerDelay == 0 {
		c.AnswerDelay = DefaultAnswerDelay
	}
	if c.ActivityThreshold == 0 {
		c.ActivityThreshold = DefaultActivityThreshold
	}
	if c.NarrationTimeout == 0 {
		c.NarrationTimeout = DefaultNarrationTimeout
	}
	return c
}

func (c Config) validate() error {
	if c.SessionID == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidConfig)
	}
	if c.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidConfig)
	}
	if c.JoinWait < time.Second {
		return fmt.Errorf("%w: join wait must be at least one second", ErrInvalidConfig)
	}
	if c.SettleDelay < 0 || c.TransitionDelay < 0 || c.AnswerDelay < 0 || c.ActivityThreshold < 0 {
		return fmt.Errorf("%w: delays cannot be negative", ErrInvalidConfig)
	}
	for i, q := range c.Questions {
		if q.TimeLimitSeconds <= 0 {
			return fmt.Errorf("%w: question %d has no time limit", ErrInvalidConfig, i)
		}
	}
	return nil
}

func (d Deps) withDefaults() Deps {
	if d.Scheduler == nil {
		d.Scheduler = scheduler.NewRealtime()
	}
	if d.Generator == nil {
		d.Generator = feedback.NewGenerator(nil)
	}
	if d.Logger == nil {
		d.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}
