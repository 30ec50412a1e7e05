package services

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/yoointerview/internal/cache"
	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/questions"
	pgrepo "github.com/yoockh/yoointerview/internal/repositories/postgres"
	"github.com/yoockh/yoointerview/internal/utils"
)

// QuestionBank is the resolved bank for a role. Fallback is set when the
// role had no bank and the default bank was used.
type QuestionBank struct {
	Role      string               `json:"role"`
	Questions []questions.Question `json:"questions"`
	Fallback  bool                 `json:"fallback"`
}

type QuestionService interface {
	Bank(ctx context.Context, role string) (*QuestionBank, error)
	Roles(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, role string, qs []questions.Question) (*QuestionBank, error)
}

type questionService struct {
	repo    pgrepo.QuestionRepository
	cache   cache.Cache
	catalog questions.Catalog
	ttl     time.Duration
	log     *logrus.Entry
}

// NewQuestionService resolves banks from Postgres, then the catalog. repo and
// c may be nil.
func NewQuestionService(repo pgrepo.QuestionRepository, c cache.Cache, catalog questions.Catalog, ttl time.Duration, log *logrus.Logger) QuestionService {
	if catalog == nil {
		catalog = questions.Seed()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &questionService{
		repo:    repo,
		cache:   c,
		catalog: catalog,
		ttl:     ttl,
		log:     log.WithField("component", "questions"),
	}
}

func bankCacheKey(role string) string { return "questions:" + role }

func (s *questionService) Bank(ctx context.Context, role string) (*QuestionBank, error) {
	const op = "QuestionService.Bank"

	role = questions.NormalizeRole(role)
	if role == "" {
		role = questions.DefaultRole
	}

	bank, err := cache.Remember(ctx, s.cache, bankCacheKey(role), s.ttl, func(ctx context.Context) (QuestionBank, error) {
		return s.load(ctx, role), nil
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load question bank", err)
	}
	return &bank, nil
}

// load never fails: a repository error degrades to the catalog.
func (s *questionService) load(ctx context.Context, role string) QuestionBank {
	if s.repo != nil {
		rows, err := s.repo.ListByRole(ctx, role)
		if err != nil {
			s.log.WithError(err).WithField("role", role).Warn("question repository unavailable, using catalog")
		} else if len(rows) > 0 {
			return QuestionBank{Role: role, Questions: fromEntries(rows)}
		}
	}

	qs, fallback := s.catalog.Resolve(role)
	if fallback {
		s.log.WithField("role", role).Info("no bank for role, using default bank")
	}
	return QuestionBank{Role: role, Questions: qs, Fallback: fallback}
}

func (s *questionService) Roles(ctx context.Context) ([]string, error) {
	set := map[string]struct{}{}
	for _, r := range s.catalog.Roles() {
		set[r] = struct{}{}
	}
	if s.repo != nil {
		roles, err := s.repo.Roles(ctx)
		if err != nil {
			s.log.WithError(err).Warn("question repository unavailable, listing catalog roles")
		}
		for _, r := range roles {
			if r != questions.DefaultRole {
				set[r] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Strings(out)
	return out, nil
}

func (s *questionService) Replace(ctx context.Context, role string, qs []questions.Question) (*QuestionBank, error) {
	const op = "QuestionService.Replace"

	role = questions.NormalizeRole(role)
	if role == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role is required", nil)
	}
	if len(qs) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "at least one question is required", nil)
	}
	for _, q := range qs {
		if q.Text == "" || q.TimeLimitSeconds <= 0 {
			return nil, utils.E(utils.CodeInvalidArgument, op, "every question needs text and a positive time limit", nil)
		}
	}
	if s.repo == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "question storage is not configured", nil)
	}

	if err := s.repo.ReplaceRole(ctx, role, toEntries(qs)); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save question bank", err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, bankCacheKey(role)); err != nil {
			s.log.WithError(err).WithField("role", role).Warn("failed to invalidate cached bank")
		}
	}
	return &QuestionBank{Role: role, Questions: qs}, nil
}

func fromEntries(rows []models.QuestionBankEntry) []questions.Question {
	out := make([]questions.Question, len(rows))
	for i, r := range rows {
		out[i] = questions.Question{
			ID:               r.QuestionID,
			Text:             r.Text,
			ExpectedPoints:   append([]string(nil), r.ExpectedPoints...),
			TimeLimitSeconds: r.TimeLimitSeconds,
		}
	}
	return out
}

func toEntries(qs []questions.Question) []models.QuestionBankEntry {
	out := make([]models.QuestionBankEntry, len(qs))
	for i, q := range qs {
		id := q.ID
		if id == 0 {
			id = i + 1
		}
		out[i] = models.QuestionBankEntry{
			QuestionID:       id,
			Text:             q.Text,
			ExpectedPoints:   append([]string(nil), q.ExpectedPoints...),
			TimeLimitSeconds: q.TimeLimitSeconds,
		}
	}
	return out
}
