package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/yoockh/yoointerview/internal/feedback"
	"github.com/yoockh/yoointerview/internal/interview"
	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/notify"
	"github.com/yoockh/yoointerview/internal/observe"
	"github.com/yoockh/yoointerview/internal/pubsub"
	"github.com/yoockh/yoointerview/internal/questions"
	mongorepo "github.com/yoockh/yoointerview/internal/repositories/mongo"
	"github.com/yoockh/yoointerview/internal/scheduler"
	"github.com/yoockh/yoointerview/internal/utils"
)

// InterviewOptions are the timings applied to every new session.
type InterviewOptions struct {
	DefaultDurationMinutes int

	JoinWait          time.Duration
	SettleDelay       time.Duration
	TransitionDelay   time.Duration
	AnswerDelay       time.Duration
	ActivityThreshold time.Duration
	NarrationTimeout  time.Duration

	// AudioStream is the stream answer transcription jobs are queued on.
	AudioStream  string
	LanguageCode string
}

type CreateInterviewInput struct {
	RecruiterID     string `json:"-"`
	CandidateID     string `json:"candidate_id"`
	CandidateName   string `json:"candidate_name"`
	CandidateEmail  string `json:"candidate_email"`
	Position        string `json:"position"`
	Role            string `json:"role"`
	DurationMinutes int    `json:"duration_minutes"`
}

// CreatedInterview is returned once; the join code is never stored in clear.
type CreatedInterview struct {
	Session       *models.InterviewSession `json:"session"`
	JoinCode      string                   `json:"join_code"`
	FallbackBank  bool                     `json:"fallback_bank"`
	QuestionCount int                      `json:"question_count"`
}

// JobQueue appends transcription jobs to a stream.
type JobQueue interface {
	Enqueue(ctx context.Context, stream string, values map[string]any) (string, error)
}

type InterviewService interface {
	Create(ctx context.Context, in CreateInterviewInput) (*CreatedInterview, error)
	Get(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	ListByRecruiter(ctx context.Context, recruiterID string, limit int64) ([]models.InterviewSession, error)
	Live(ctx context.Context, sessionID string) (interview.Snapshot, error)

	// Authorize checks a candidate join code against the stored hash.
	Authorize(ctx context.Context, sessionID, code string) (*models.InterviewSession, error)
	Join(ctx context.Context, sessionID, code string) (interview.Snapshot, error)
	StartRecording(ctx context.Context, sessionID, code string) (interview.Snapshot, error)
	StopRecording(ctx context.Context, sessionID, code string) (feedback.Answer, error)
	Skip(ctx context.Context, sessionID, code string) (interview.Snapshot, error)

	End(ctx context.Context, sessionID string) (interview.Outcome, error)
	Close(ctx context.Context, sessionID string) error
	Shutdown(ctx context.Context) error
}

type InterviewDeps struct {
	Sessions  mongorepo.SessionRepository
	Questions QuestionService
	Feedback  FeedbackService
	Scheduler scheduler.Scheduler
	Narrator  interview.Narrator
	Generator interview.FeedbackGenerator
	Events    pubsub.Publisher
	Jobs      JobQueue
	Metrics   *observe.Metrics
	Logger    *logrus.Logger
	Options   InterviewOptions
}

type liveSession struct {
	sess      *interview.Session
	meta      models.InterviewSession
	questions []questions.Question
	dirty     chan struct{}
}

type interviewService struct {
	deps InterviewDeps
	log  *logrus.Entry

	mu   sync.RWMutex
	live map[string]*liveSession
	wg   sync.WaitGroup
}

func NewInterviewService(deps InterviewDeps) InterviewService {
	if deps.Metrics == nil {
		deps.Metrics = observe.NopMetrics()
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = scheduler.NewRealtime()
	}
	if deps.Options.DefaultDurationMinutes <= 0 {
		deps.Options.DefaultDurationMinutes = 30
	}
	if deps.Options.AudioStream == "" {
		deps.Options.AudioStream = "answer:audio"
	}
	return &interviewService{
		deps: deps,
		log:  deps.Logger.WithField("component", "interviews"),
		live: map[string]*liveSession{},
	}
}

func (s *interviewService) Create(ctx context.Context, in CreateInterviewInput) (*CreatedInterview, error) {
	const op = "InterviewService.Create"

	in.CandidateName = strings.TrimSpace(in.CandidateName)
	in.Position = strings.TrimSpace(in.Position)
	if in.RecruiterID == "" || in.CandidateID == "" || in.CandidateName == "" || in.Position == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id, candidate_name, and position are required", nil)
	}
	for _, v := range []string{in.CandidateName, in.CandidateEmail, in.Position, in.Role} {
		if !notify.SafeHeaderValue(v) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "candidate and position fields cannot contain line breaks", nil)
		}
	}
	if in.DurationMinutes < 0 || in.DurationMinutes > 180 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "duration_minutes must be between 1 and 180", nil)
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = s.deps.Options.DefaultDurationMinutes
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = in.Position
	}

	bank, err := s.deps.Questions.Bank(ctx, role)
	if err != nil {
		return nil, err
	}

	code := utils.NewJoinCode()
	hash, err := utils.HashSecret(code)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to secure join code", err)
	}

	sessionID := uuid.NewString()
	l := &liveSession{dirty: make(chan struct{}, 1)}

	opts := s.deps.Options
	sess, err := interview.New(interview.Config{
		SessionID:         sessionID,
		CandidateID:       in.CandidateID,
		CandidateName:     in.CandidateName,
		Position:          in.Position,
		DurationMinutes:   in.DurationMinutes,
		Questions:         bank.Questions,
		JoinWait:          opts.JoinWait,
		SettleDelay:       opts.SettleDelay,
		TransitionDelay:   opts.TransitionDelay,
		AnswerDelay:       opts.AnswerDelay,
		ActivityThreshold: opts.ActivityThreshold,
		NarrationTimeout:  opts.NarrationTimeout,
	}, interview.Deps{
		Scheduler: s.deps.Scheduler,
		Narrator:  s.deps.Narrator,
		Generator: s.deps.Generator,
		Events:    interview.EventFunc(func(e interview.Event) { s.onEvent(l, e) }),
		Logger:    s.log,
	})
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid interview configuration", err)
	}
	l.sess = sess
	l.questions = sess.Questions()

	now := time.Now().UTC()
	l.meta = models.InterviewSession{
		SessionID:       sessionID,
		RecruiterID:     in.RecruiterID,
		CandidateID:     in.CandidateID,
		CandidateName:   in.CandidateName,
		CandidateEmail:  strings.TrimSpace(in.CandidateEmail),
		Position:        in.Position,
		Role:            bank.Role,
		DurationMinutes: in.DurationMinutes,
		JoinCodeHash:    hash,
		Status:          string(interview.StateWaiting),
		TotalQuestions:  len(l.questions),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	row := l.meta
	if err := s.deps.Sessions.Create(ctx, &row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview", err)
	}

	s.mu.Lock()
	s.live[sessionID] = l
	s.mu.Unlock()
	s.deps.Metrics.SessionsCreated.Add(ctx, 1)
	s.deps.Metrics.ActiveSessions.Add(ctx, 1)

	s.wg.Add(1)
	go s.watch(l)

	if err := sess.Open(); err != nil {
		sess.Close()
		return nil, utils.E(utils.CodeInternal, op, "failed to open interview", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id":   sessionID,
		"recruiter_id": in.RecruiterID,
		"role":         bank.Role,
		"fallback":     bank.Fallback,
	}).Info("interview created")

	return &CreatedInterview{
		Session:       &row,
		JoinCode:      code,
		FallbackBank:  bank.Fallback,
		QuestionCount: row.TotalQuestions,
	}, nil
}

func (s *interviewService) Get(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	const op = "InterviewService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	out, err := s.deps.Sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	return out, nil
}

func (s *interviewService) ListByRecruiter(ctx context.Context, recruiterID string, limit int64) ([]models.InterviewSession, error) {
	const op = "InterviewService.ListByRecruiter"

	if recruiterID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id is required", nil)
	}
	out, err := s.deps.Sessions.ListByRecruiter(ctx, recruiterID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}
	return out, nil
}

func (s *interviewService) Live(ctx context.Context, sessionID string) (interview.Snapshot, error) {
	l, err := s.lookup(ctx, "InterviewService.Live", sessionID)
	if err != nil {
		return interview.Snapshot{}, err
	}
	return l.sess.Snapshot(), nil
}

func (s *interviewService) Authorize(ctx context.Context, sessionID, code string) (*models.InterviewSession, error) {
	const op = "InterviewService.Authorize"

	code = utils.NormalizeJoinCode(code)
	if code == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "join code is required", nil)
	}

	var meta *models.InterviewSession
	s.mu.RLock()
	if l, ok := s.live[sessionID]; ok {
		m := l.meta
		meta = &m
	}
	s.mu.RUnlock()
	if meta == nil {
		var err error
		if meta, err = s.Get(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	if err := utils.CheckSecret(meta.JoinCodeHash, code); err != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid join code", err)
	}
	return meta, nil
}

func (s *interviewService) candidate(ctx context.Context, op, sessionID, code string) (*liveSession, error) {
	if _, err := s.Authorize(ctx, sessionID, code); err != nil {
		return nil, err
	}
	return s.lookup(ctx, op, sessionID)
}

func (s *interviewService) Join(ctx context.Context, sessionID, code string) (interview.Snapshot, error) {
	const op = "InterviewService.Join"

	l, err := s.candidate(ctx, op, sessionID, code)
	if err != nil {
		return interview.Snapshot{}, err
	}
	if err := l.sess.Join(); err != nil {
		return interview.Snapshot{}, sessionError(op, err)
	}
	if err := s.deps.Sessions.MarkJoined(ctx, sessionID, time.Now().UTC()); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("failed to mark candidate joined")
	}
	return l.sess.Snapshot(), nil
}

func (s *interviewService) StartRecording(ctx context.Context, sessionID, code string) (interview.Snapshot, error) {
	const op = "InterviewService.StartRecording"

	l, err := s.candidate(ctx, op, sessionID, code)
	if err != nil {
		return interview.Snapshot{}, err
	}
	if err := l.sess.StartRecording(); err != nil {
		return interview.Snapshot{}, sessionError(op, err)
	}
	return l.sess.Snapshot(), nil
}

func (s *interviewService) StopRecording(ctx context.Context, sessionID, code string) (feedback.Answer, error) {
	const op = "InterviewService.StopRecording"

	l, err := s.candidate(ctx, op, sessionID, code)
	if err != nil {
		return feedback.Answer{}, err
	}
	answer, ok := l.sess.StopRecording()
	if !ok {
		return feedback.Answer{}, utils.E(utils.CodeConflict, op, "no recording in progress", nil)
	}
	return answer, nil
}

func (s *interviewService) Skip(ctx context.Context, sessionID, code string) (interview.Snapshot, error) {
	const op = "InterviewService.Skip"

	l, err := s.candidate(ctx, op, sessionID, code)
	if err != nil {
		return interview.Snapshot{}, err
	}
	if err := l.sess.Skip(); err != nil {
		return interview.Snapshot{}, sessionError(op, err)
	}
	return l.sess.Snapshot(), nil
}

func (s *interviewService) End(ctx context.Context, sessionID string) (interview.Outcome, error) {
	const op = "InterviewService.End"

	l, err := s.lookup(ctx, op, sessionID)
	if err != nil {
		return interview.Outcome{}, err
	}
	if err := l.sess.End(); err != nil {
		return interview.Outcome{}, sessionError(op, err)
	}
	out, _ := l.sess.Outcome()
	return out, nil
}

func (s *interviewService) Close(ctx context.Context, sessionID string) error {
	const op = "InterviewService.Close"

	s.mu.RLock()
	l, ok := s.live[sessionID]
	s.mu.RUnlock()
	if ok {
		l.sess.Close()
		return nil
	}
	_, err := s.Get(ctx, sessionID)
	return err
}

// Shutdown closes every live session and waits until each one is persisted.
func (s *interviewService) Shutdown(ctx context.Context) error {
	const op = "InterviewService.Shutdown"

	s.mu.RLock()
	open := make([]*liveSession, 0, len(s.live))
	for _, l := range s.live {
		open = append(open, l)
	}
	s.mu.RUnlock()

	for _, l := range open {
		l.sess.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.WithField("sessions", len(open)).Info("interviews shut down")
		return nil
	case <-ctx.Done():
		return utils.E(utils.CodeTimeout, op, "timed out waiting for interviews", ctx.Err())
	}
}

func (s *interviewService) lookup(ctx context.Context, op, sessionID string) (*liveSession, error) {
	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	s.mu.RLock()
	l, ok := s.live[sessionID]
	s.mu.RUnlock()
	if ok {
		return l, nil
	}
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return nil, utils.E(utils.CodeConflict, op, "interview has ended", interview.ErrClosed)
}

func sessionError(op string, err error) error {
	switch {
	case errors.Is(err, interview.ErrNarrationPlaying):
		return utils.E(utils.CodeConflict, op, "question is still being read", err)
	case errors.Is(err, interview.ErrBetweenQuestions):
		return utils.E(utils.CodeConflict, op, "moving to the next question", err)
	case errors.Is(err, interview.ErrClosed):
		return utils.E(utils.CodeConflict, op, "interview has ended", err)
	case errors.Is(err, interview.ErrInvalidState):
		return utils.E(utils.CodeConflict, op, "action not allowed in the current state", err)
	default:
		return utils.E(utils.CodeInternal, op, "interview action failed", err)
	}
}

// onEvent runs on the session's flush path. It must not call back into the
// session; persistence is handed to the watch goroutine.
func (s *interviewService) onEvent(l *liveSession, e interview.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if s.deps.Events != nil {
		if err := s.deps.Events.PublishJSON(ctx, pubsub.StatusChannel(e.SessionID), e); err != nil {
			s.log.WithError(err).WithField("session_id", e.SessionID).Warn("failed to publish interview event")
		}
	}

	if e.Type == interview.EventAnswerRecorded && e.Answer != nil {
		s.deps.Metrics.Answers.Add(ctx, 1, metric.WithAttributes(attribute.String("bucket", string(e.Answer.Bucket))))
		if e.Answer.VoiceDetected {
			s.enqueueAnswer(ctx, l, *e.Answer)
		}
	}

	select {
	case l.dirty <- struct{}{}:
	default:
	}
}

func (s *interviewService) enqueueAnswer(ctx context.Context, l *liveSession, a feedback.Answer) {
	if s.deps.Jobs == nil || a.QuestionIndex < 0 || a.QuestionIndex >= len(l.questions) {
		return
	}
	q := l.questions[a.QuestionIndex]
	points, _ := json.Marshal(q.ExpectedPoints)

	_, err := s.deps.Jobs.Enqueue(ctx, s.deps.Options.AudioStream, map[string]any{
		"session_id":      l.meta.SessionID,
		"question_index":  strconv.Itoa(a.QuestionIndex),
		"question":        q.Text,
		"expected_points": string(points),
		"seconds":         strconv.Itoa(a.Seconds),
		"language":        s.deps.Options.LanguageCode,
	})
	if err != nil {
		s.log.WithError(err).WithField("session_id", l.meta.SessionID).Warn("failed to queue answer transcription")
	}
}

// watch persists progress while the session runs and records the outcome
// once it ends.
func (s *interviewService) watch(l *liveSession) {
	defer s.wg.Done()

	for {
		select {
		case <-l.dirty:
			snap := l.sess.Snapshot()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.deps.Sessions.UpdateProgress(ctx, snap.SessionID, progressOf(snap)); err != nil {
				s.log.WithError(err).WithField("session_id", snap.SessionID).Warn("failed to persist interview progress")
			}
			cancel()
		case out, ok := <-l.sess.Done():
			s.release(l, out, ok)
			return
		}
	}
}

func (s *interviewService) release(l *liveSession, out interview.Outcome, ok bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	id := l.meta.SessionID
	log := s.log.WithField("session_id", id)

	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
	s.deps.Metrics.ActiveSessions.Add(ctx, -1)

	snap := l.sess.Snapshot()
	progress := progressOf(snap)
	state, reason := string(snap.State), string(snap.Reason)
	if !ok {
		progress.Status = models.SessionStatusClosed
		state = models.SessionStatusClosed
	}

	var score *int
	recommendation := ""
	if ok && out.Completed() && out.Feedback != nil {
		res := *out.Feedback
		score = &res.OverallScore
		recommendation = string(res.Recommendation)
		if s.deps.Feedback != nil {
			meta := FeedbackMeta{SessionID: id, RecruiterID: l.meta.RecruiterID, CandidateEmail: l.meta.CandidateEmail}
			if _, err := s.deps.Feedback.Record(ctx, meta, res); err != nil {
				log.WithError(err).Error("failed to record feedback")
			}
		}
	}

	if err := s.deps.Sessions.Finish(ctx, id, progress, score, recommendation, time.Now().UTC()); err != nil {
		log.WithError(err).Error("failed to persist interview outcome")
	}
	if !ok && s.deps.Events != nil {
		_ = s.deps.Events.PublishJSON(ctx, pubsub.StatusChannel(id), map[string]any{
			"type":       "closed",
			"session_id": id,
			"state":      snap.State,
		})
	}

	s.deps.Metrics.SessionOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("state", state),
		attribute.String("reason", reason),
	))
	l.sess.Close()

	log.WithFields(logrus.Fields{"state": state, "reason": reason}).Info("interview released")
}

func progressOf(snap interview.Snapshot) mongorepo.SessionProgress {
	answers := make([]models.AnswerRecord, 0, len(snap.Answers))
	for _, a := range snap.Answers {
		answers = append(answers, models.AnswerRecord{
			QuestionIndex: a.QuestionIndex,
			Seconds:       a.Seconds,
			VoiceDetected: a.VoiceDetected,
			Bucket:        string(a.Bucket),
			Label:         a.Label,
		})
	}
	return mongorepo.SessionProgress{
		Status:         string(snap.State),
		Reason:         string(snap.Reason),
		QuestionIndex:  snap.QuestionIndex,
		TotalQuestions: snap.TotalQuestions,
		Answers:        answers,
	}
}
