package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TranscriptRepository interface {
	Upsert(ctx context.Context, t *models.AnswerTranscript) error
	ListBySession(ctx context.Context, sessionID string) ([]models.AnswerTranscript, error)
	Get(ctx context.Context, sessionID string, questionIndex int) (*models.AnswerTranscript, error)
}

type transcriptRepo struct {
	db *gorm.DB
}

func NewTranscriptRepo(db *gorm.DB) TranscriptRepository {
	return &transcriptRepo{db: db}
}

func (r *transcriptRepo) Upsert(ctx context.Context, t *models.AnswerTranscript) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_index"}},
			DoUpdates: clause.AssignmentColumns([]string{"question", "text", "confidence", "assessment", "metadata"}),
		}).
		Create(t).Error
}

func (r *transcriptRepo) ListBySession(ctx context.Context, sessionID string) ([]models.AnswerTranscript, error) {
	var rows []models.AnswerTranscript
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("question_index ASC").
		Find(&rows).Error
	return rows, err
}

func (r *transcriptRepo) Get(ctx context.Context, sessionID string, questionIndex int) (*models.AnswerTranscript, error) {
	var row models.AnswerTranscript
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND question_index = ?", sessionID, questionIndex).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}
