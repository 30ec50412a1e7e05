package handlers

import (
	"context"
	"sync"

	"github.com/yoockh/yoointerview/internal/feedback"
	"github.com/yoockh/yoointerview/internal/interview"
	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/notify"
	"github.com/yoockh/yoointerview/internal/questions"
	"github.com/yoockh/yoointerview/internal/services"
	"github.com/yoockh/yoointerview/internal/utils"
)

// fakeInterviews keeps sessions in memory and records candidate calls.
type fakeInterviews struct {
	mu       sync.Mutex
	sessions map[string]*models.InterviewSession
	codes    map[string]string
	created  []services.CreateInterviewInput
	calls    []string
	ended    []string
	closed   []string
	err      error
}

func newFakeInterviews() *fakeInterviews {
	return &fakeInterviews{sessions: map[string]*models.InterviewSession{}, codes: map[string]string{}}
}

func (f *fakeInterviews) add(id, recruiterID, code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[id] = &models.InterviewSession{SessionID: id, RecruiterID: recruiterID, Status: "waiting"}
	f.codes[id] = code
}

func (f *fakeInterviews) Create(_ context.Context, in services.CreateInterviewInput) (*services.CreatedInterview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &services.CreatedInterview{
		Session:       &models.InterviewSession{SessionID: "s-new", RecruiterID: in.RecruiterID, Position: in.Position},
		JoinCode:      "ABCD2345",
		QuestionCount: 6,
	}, nil
}

func (f *fakeInterviews) Get(_ context.Context, id string) (*models.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, utils.E(utils.CodeNotFound, "fake.Get", "interview not found", utils.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeInterviews) ListByRecruiter(_ context.Context, recruiterID string, _ int64) ([]models.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.InterviewSession
	for _, s := range f.sessions {
		if s.RecruiterID == recruiterID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeInterviews) Live(_ context.Context, id string) (interview.Snapshot, error) {
	return interview.Snapshot{SessionID: id, State: interview.StateActive}, nil
}

func (f *fakeInterviews) Authorize(ctx context.Context, id, code string) (*models.InterviewSession, error) {
	s, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.codes[id] != code {
		return nil, utils.E(utils.CodeUnauthorized, "fake.Authorize", "invalid join code", nil)
	}
	return s, nil
}

func (f *fakeInterviews) candidate(ctx context.Context, action, id, code string) (interview.Snapshot, error) {
	if _, err := f.Authorize(ctx, id, code); err != nil {
		return interview.Snapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, action)
	return interview.Snapshot{SessionID: id, State: interview.StateActive}, nil
}

func (f *fakeInterviews) Join(ctx context.Context, id, code string) (interview.Snapshot, error) {
	return f.candidate(ctx, "join", id, code)
}

func (f *fakeInterviews) StartRecording(ctx context.Context, id, code string) (interview.Snapshot, error) {
	return f.candidate(ctx, "start", id, code)
}

func (f *fakeInterviews) StopRecording(ctx context.Context, id, code string) (feedback.Answer, error) {
	if _, err := f.candidate(ctx, "stop", id, code); err != nil {
		return feedback.Answer{}, err
	}
	return feedback.NewAnswer(0, 12, true), nil
}

func (f *fakeInterviews) Skip(ctx context.Context, id, code string) (interview.Snapshot, error) {
	return f.candidate(ctx, "skip", id, code)
}

func (f *fakeInterviews) End(_ context.Context, id string) (interview.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, id)
	return interview.Outcome{State: interview.StateCompleted, Reason: interview.ReasonEndedEarly}, nil
}

func (f *fakeInterviews) Close(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeInterviews) Shutdown(context.Context) error { return nil }

type fakeTranscripts struct {
	rows []models.AnswerTranscript
}

func (f *fakeTranscripts) Save(context.Context, services.TranscriptInput) (*models.AnswerTranscript, error) {
	return nil, nil
}

func (f *fakeTranscripts) ListBySession(context.Context, string) ([]models.AnswerTranscript, error) {
	return f.rows, nil
}

type fakeFeedback struct {
	mu       sync.Mutex
	rows     map[string]*models.InterviewFeedback
	notified map[string]string
}

func newFakeFeedback() *fakeFeedback {
	return &fakeFeedback{rows: map[string]*models.InterviewFeedback{}, notified: map[string]string{}}
}

func (f *fakeFeedback) Record(context.Context, services.FeedbackMeta, feedback.Result) (*models.InterviewFeedback, error) {
	return nil, nil
}

func (f *fakeFeedback) Get(_ context.Context, id string) (*models.InterviewFeedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, utils.E(utils.CodeNotFound, "fake.Get", "feedback not found", utils.ErrNotFound)
	}
	return row, nil
}

func (f *fakeFeedback) ListByCandidate(_ context.Context, candidateID, recruiterID string, _ int) ([]models.InterviewFeedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.InterviewFeedback
	for _, r := range f.rows {
		if r.CandidateID == candidateID && (recruiterID == "" || r.RecruiterID == recruiterID) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeFeedback) Notify(_ context.Context, id, email string) (notify.Kind, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return "", utils.E(utils.CodeNotFound, "fake.Notify", "feedback not found", utils.ErrNotFound)
	}
	if _, done := f.notified[id]; done {
		return "", utils.E(utils.CodeConflict, "fake.Notify", "candidate already notified", nil)
	}
	f.notified[id] = email
	return notify.KindFor(row.OverallScore), nil
}

type fakeQuestions struct {
	replaced map[string][]questions.Question
}

func (f *fakeQuestions) Bank(_ context.Context, role string) (*services.QuestionBank, error) {
	return &services.QuestionBank{Role: questions.NormalizeRole(role), Questions: questions.WithIntroduction(nil)}, nil
}

func (f *fakeQuestions) Roles(context.Context) ([]string, error) {
	return []string{"backend developer", "default"}, nil
}

func (f *fakeQuestions) Replace(_ context.Context, role string, qs []questions.Question) (*services.QuestionBank, error) {
	if f.replaced == nil {
		f.replaced = map[string][]questions.Question{}
	}
	f.replaced[role] = qs
	return &services.QuestionBank{Role: role, Questions: qs}, nil
}
