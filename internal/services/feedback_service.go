package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/datatypes"

	"github.com/yoockh/yoointerview/internal/feedback"
	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/notify"
	"github.com/yoockh/yoointerview/internal/observe"
	pgrepo "github.com/yoockh/yoointerview/internal/repositories/postgres"
	"github.com/yoockh/yoointerview/internal/storage"
	"github.com/yoockh/yoointerview/internal/utils"
)

// FeedbackMeta carries what the feedback result itself does not know.
type FeedbackMeta struct {
	SessionID      string
	RecruiterID    string
	CandidateEmail string
}

type FeedbackService interface {
	Record(ctx context.Context, meta FeedbackMeta, res feedback.Result) (*models.InterviewFeedback, error)
	Get(ctx context.Context, sessionID string) (*models.InterviewFeedback, error)
	// ListByCandidate lists a candidate's records. A non-empty recruiterID
	// limits the list to that recruiter's interviews.
	ListByCandidate(ctx context.Context, candidateID, recruiterID string, limit int) ([]models.InterviewFeedback, error)
	// Notify sends the selection or rejection email once per record. An
	// empty email uses the address stored with the interview.
	Notify(ctx context.Context, sessionID, email string) (notify.Kind, error)
}

type feedbackService struct {
	repo     pgrepo.FeedbackRepository
	uploader storage.Uploader
	mailer   notify.Mailer
	metrics  *observe.Metrics
	log      *logrus.Entry
	now      func() time.Time
}

// NewFeedbackService accepts a nil uploader (no archive) and a nil mailer
// (notifications unavailable).
func NewFeedbackService(repo pgrepo.FeedbackRepository, uploader storage.Uploader, mailer notify.Mailer, metrics *observe.Metrics, log *logrus.Logger) FeedbackService {
	if metrics == nil {
		metrics = observe.NopMetrics()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &feedbackService{
		repo:     repo,
		uploader: uploader,
		mailer:   mailer,
		metrics:  metrics,
		log:      log.WithField("component", "feedback"),
		now:      time.Now,
	}
}

func (s *feedbackService) Record(ctx context.Context, meta FeedbackMeta, res feedback.Result) (*models.InterviewFeedback, error) {
	const op = "FeedbackService.Record"

	if meta.SessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode answers", err)
	}

	row := &models.InterviewFeedback{
		ID:                uuid.NewString(),
		SessionID:         meta.SessionID,
		RecruiterID:       meta.RecruiterID,
		CandidateID:       res.CandidateID,
		CandidateName:     res.CandidateName,
		CandidateEmail:    meta.CandidateEmail,
		Position:          res.Position,
		Communication:     res.Scores.Communication,
		Technical:         res.Scores.Technical,
		ProblemSolving:    res.Scores.ProblemSolving,
		Cultural:          res.Scores.Cultural,
		OverallScore:      res.OverallScore,
		Recommendation:    string(res.Recommendation),
		FeedbackText:      res.FeedbackText,
		AnswerLabels:      res.Labels(),
		Answers:           datatypes.JSON(answers),
		DurationSeconds:   res.InterviewDurationSeconds,
		QuestionsAnswered: res.QuestionsAnswered,
		TotalQuestions:    res.TotalQuestions,
		ResponseRate:      res.ResponseRate,
		VoiceDetected:     res.VoiceDetected,
		CreatedAt:         s.now().UTC(),
	}

	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, utils.ErrAlreadyExists) {
			return nil, utils.E(utils.CodeConflict, op, "feedback already recorded", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save feedback", err)
	}

	s.metrics.OverallScore.Record(ctx, int64(res.OverallScore),
		metric.WithAttributes(attribute.String("recommendation", string(res.Recommendation))))

	if s.uploader != nil {
		s.archive(ctx, row, res)
	}
	return row, nil
}

// archive failures are logged; the Postgres record is authoritative.
func (s *feedbackService) archive(ctx context.Context, row *models.InterviewFeedback, res feedback.Result) {
	log := s.log.WithField("session_id", row.SessionID)

	body, err := json.MarshalIndent(struct {
		SessionID string `json:"session_id"`
		feedback.Result
	}{row.SessionID, res}, "", "  ")
	if err != nil {
		log.WithError(err).Warn("failed to encode feedback archive")
		return
	}

	url, err := s.uploader.Upload(ctx, storage.FeedbackObjectName(row.SessionID), "application/json", bytes.NewReader(body))
	if err != nil {
		log.WithError(err).Warn("failed to archive feedback")
		return
	}
	if err := s.repo.SetArchiveURL(ctx, row.SessionID, url); err != nil {
		log.WithError(err).Warn("failed to store archive url")
		return
	}
	row.ArchiveURL = url
}

func (s *feedbackService) Get(ctx context.Context, sessionID string) (*models.InterviewFeedback, error) {
	const op = "FeedbackService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	out, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "feedback not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get feedback", err)
	}
	return out, nil
}

func (s *feedbackService) ListByCandidate(ctx context.Context, candidateID, recruiterID string, limit int) ([]models.InterviewFeedback, error) {
	const op = "FeedbackService.ListByCandidate"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	out, err := s.repo.ListByCandidate(ctx, candidateID, recruiterID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list feedback", err)
	}
	return out, nil
}

func (s *feedbackService) Notify(ctx context.Context, sessionID, email string) (notify.Kind, error) {
	const op = "FeedbackService.Notify"

	if s.mailer == nil {
		return "", utils.E(utils.CodeUnavailable, op, "email is not configured", nil)
	}
	row, err := s.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if row.NotifiedAt != nil {
		return "", utils.E(utils.CodeConflict, op, "candidate was already notified", nil)
	}

	to := strings.TrimSpace(email)
	if to == "" {
		to = row.CandidateEmail
	}
	if to == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "candidate email is required", nil)
	}
	if !notify.SafeHeaderValue(to) {
		return "", utils.E(utils.CodeInvalidArgument, op, "candidate email is invalid", nil)
	}

	// Claim the record before sending so concurrent calls send at most once.
	claimedAt := s.now().UTC().Truncate(time.Microsecond)
	claimed, err := s.repo.MarkNotified(ctx, sessionID, claimedAt)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to claim notification", err)
	}
	if !claimed {
		return "", utils.E(utils.CodeConflict, op, "candidate was already notified", nil)
	}

	kind := notify.KindFor(row.OverallScore)
	msg := notify.Compose(kind, row.CandidateName, row.Position)
	attrs := []attribute.KeyValue{attribute.String("recommendation", row.Recommendation)}

	if err := s.mailer.Send(ctx, to, msg); err != nil {
		s.metrics.Notifications.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("status", "failed"))...))
		if cerr := s.repo.ClearNotified(context.WithoutCancel(ctx), sessionID, claimedAt); cerr != nil {
			s.log.WithError(cerr).WithField("session_id", sessionID).Error("email failed and notification claim not released")
		}
		if errors.Is(err, notify.ErrNotConfigured) {
			return "", utils.E(utils.CodeUnavailable, op, "email is not configured", err)
		}
		return "", utils.E(utils.CodeUnavailable, op, "failed to send email", err)
	}
	s.metrics.Notifications.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("status", "sent"))...))
	s.log.WithFields(logrus.Fields{"session_id": sessionID, "kind": kind}).Info("candidate notified")
	return kind, nil
}
