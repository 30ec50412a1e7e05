package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/yoointerview/internal/feedback"
	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/notify"
	"github.com/yoockh/yoointerview/internal/questions"
	mongorepo "github.com/yoockh/yoointerview/internal/repositories/mongo"
	"github.com/yoockh/yoointerview/internal/utils"
)

func nullLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeSessionRepo struct {
	mu        sync.Mutex
	rows      map[string]models.InterviewSession
	finished  map[string]int
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[string]models.InterviewSession{}, finished: map[string]int{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.rows[s.SessionID]; ok {
		return utils.ErrAlreadyExists
	}
	r.rows[s.SessionID] = *s
	return nil
}

func (r *fakeSessionRepo) GetBySessionID(_ context.Context, id string) (*models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSessionRepo) apply(id string, p mongorepo.SessionProgress) models.InterviewSession {
	s := r.rows[id]
	s.Status = p.Status
	s.Reason = p.Reason
	s.QuestionIndex = p.QuestionIndex
	s.TotalQuestions = p.TotalQuestions
	s.Answers = p.Answers
	return s
}

func (r *fakeSessionRepo) UpdateProgress(_ context.Context, id string, p mongorepo.SessionProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return utils.ErrNotFound
	}
	r.rows[id] = r.apply(id, p)
	return nil
}

func (r *fakeSessionRepo) MarkJoined(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.rows[id]
	s.JoinedAt = &at
	r.rows[id] = s
	return nil
}

func (r *fakeSessionRepo) Finish(_ context.Context, id string, p mongorepo.SessionProgress, score *int, rec string, endedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.apply(id, p)
	s.OverallScore = score
	s.Recommendation = rec
	s.EndedAt = &endedAt
	r.rows[id] = s
	r.finished[id]++
	return nil
}

func (r *fakeSessionRepo) ListByRecruiter(_ context.Context, recruiterID string, _ int64) ([]models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.InterviewSession
	for _, s := range r.rows {
		if s.RecruiterID == recruiterID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) get(id string) models.InterviewSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

func (r *fakeSessionRepo) finishCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished[id]
}

type recordedFeedback struct {
	meta FeedbackMeta
	res  feedback.Result
}

type fakeFeedbackService struct {
	mu      sync.Mutex
	records []recordedFeedback
}

func (f *fakeFeedbackService) Record(_ context.Context, meta FeedbackMeta, res feedback.Result) (*models.InterviewFeedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, recordedFeedback{meta: meta, res: res})
	return &models.InterviewFeedback{SessionID: meta.SessionID, OverallScore: res.OverallScore}, nil
}

func (f *fakeFeedbackService) Get(context.Context, string) (*models.InterviewFeedback, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeFeedbackService) ListByCandidate(context.Context, string, string, int) ([]models.InterviewFeedback, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeFeedbackService) Notify(context.Context, string, string) (notify.Kind, error) {
	return "", errors.New("not implemented")
}

func (f *fakeFeedbackService) recorded() []recordedFeedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedFeedback(nil), f.records...)
}

type published struct {
	channel string
	payload map[string]any
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (p *fakePublisher) PublishJSON(_ context.Context, channel string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{channel: channel, payload: m})
	return nil
}

func (p *fakePublisher) types(channel string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, m := range p.msgs {
		if m.channel == channel {
			t, _ := m.payload["type"].(string)
			out = append(out, t)
		}
	}
	return out
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []map[string]any
}

func (q *fakeQueue) Enqueue(_ context.Context, _ string, values map[string]any) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, values)
	return "1-0", nil
}

func (q *fakeQueue) all() []map[string]any {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]map[string]any(nil), q.jobs...)
}

type fakeQuestionRepo struct {
	mu    sync.Mutex
	banks map[string][]models.QuestionBankEntry
	err   error
	loads int
}

func (r *fakeQuestionRepo) ListByRole(_ context.Context, role string) ([]models.QuestionBankEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	if r.err != nil {
		return nil, r.err
	}
	return r.banks[role], nil
}

func (r *fakeQuestionRepo) Roles(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []string
	for role := range r.banks {
		out = append(out, role)
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeQuestionRepo) ReplaceRole(_ context.Context, role string, entries []models.QuestionBankEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.banks == nil {
		r.banks = map[string][]models.QuestionBankEntry{}
	}
	r.banks[role] = entries
	return nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (m *memoryCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// staticQuestions serves a fixed bank for every role.
type staticQuestions struct {
	bank []questions.Question
}

func (s staticQuestions) Bank(_ context.Context, role string) (*QuestionBank, error) {
	return &QuestionBank{Role: questions.NormalizeRole(role), Questions: s.bank}, nil
}

func (s staticQuestions) Roles(context.Context) ([]string, error) { return nil, nil }

func (s staticQuestions) Replace(context.Context, string, []questions.Question) (*QuestionBank, error) {
	return nil, errors.New("not implemented")
}
