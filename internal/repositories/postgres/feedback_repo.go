package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackRepository interface {
	Create(ctx context.Context, f *models.InterviewFeedback) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewFeedback, error)
	// ListByCandidate filters by recruiter when recruiterID is not empty.
	ListByCandidate(ctx context.Context, candidateID, recruiterID string, limit int) ([]models.InterviewFeedback, error)
	SetArchiveURL(ctx context.Context, sessionID, url string) error
	// MarkNotified sets notified_at once. It reports false when the record
	// was already notified.
	MarkNotified(ctx context.Context, sessionID string, at time.Time) (bool, error)
	// ClearNotified releases a claim taken by MarkNotified when the email
	// could not be sent.
	ClearNotified(ctx context.Context, sessionID string, at time.Time) error
}

type feedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, f *models.InterviewFeedback) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(f)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrAlreadyExists
	}
	return nil
}

func (r *feedbackRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewFeedback, error) {
	var f models.InterviewFeedback
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &f, err
}

func (r *feedbackRepo) ListByCandidate(ctx context.Context, candidateID, recruiterID string, limit int) ([]models.InterviewFeedback, error) {
	if limit <= 0 {
		limit = 20
	}
	q := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID)
	if recruiterID != "" {
		q = q.Where("recruiter_id = ?", recruiterID)
	}
	var rows []models.InterviewFeedback
	err := q.
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *feedbackRepo) SetArchiveURL(ctx context.Context, sessionID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.InterviewFeedback{}).
		Where("session_id = ?", sessionID).
		Update("archive_url", url).Error
}

func (r *feedbackRepo) MarkNotified(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InterviewFeedback{}).
		Where("session_id = ? AND notified_at IS NULL", sessionID).
		Update("notified_at", at.UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *feedbackRepo) ClearNotified(ctx context.Context, sessionID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.InterviewFeedback{}).
		Where("session_id = ? AND notified_at = ?", sessionID, at.UTC()).
		Update("notified_at", nil).Error
}
