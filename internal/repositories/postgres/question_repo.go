package postgres

import (
	"context"
	"time"

	"github.com/yoockh/yoointerview/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository interface {
	ListByRole(ctx context.Context, role string) ([]models.QuestionBankEntry, error)
	Roles(ctx context.Context) ([]string, error)
	// ReplaceRole swaps the whole bank of a role in one transaction.
	ReplaceRole(ctx context.Context, role string, entries []models.QuestionBankEntry) error
}

type questionRepo struct {
	db *gorm.DB
}

func NewQuestionRepo(db *gorm.DB) QuestionRepository {
	return &questionRepo{db: db}
}

func (r *questionRepo) ListByRole(ctx context.Context, role string) ([]models.QuestionBankEntry, error) {
	var rows []models.QuestionBankEntry
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("position ASC").
		Find(&rows).Error
	return rows, err
}

func (r *questionRepo) Roles(ctx context.Context) ([]string, error) {
	var roles []string
	err := r.db.WithContext(ctx).
		Model(&models.QuestionBankEntry{}).
		Distinct("role").
		Order("role ASC").
		Pluck("role", &roles).Error
	return roles, err
}

func (r *questionRepo) ReplaceRole(ctx context.Context, role string, entries []models.QuestionBankEntry) error {
	now := time.Now().UTC()
	for i := range entries {
		entries[i].Role = role
		entries[i].Position = i
		entries[i].UpdatedAt = now
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role = ? AND position >= ?", role, len(entries)).
			Delete(&models.QuestionBankEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "role"}, {Name: "position"}},
			DoUpdates: clause.AssignmentColumns([]string{"question_id", "text", "expected_points", "time_limit_seconds", "updated_at"}),
		}).Create(&entries).Error
	})
}
