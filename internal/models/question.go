package models

import (
	"time"

	"github.com/lib/pq"
)

// QuestionBankEntry is one question of a role bank. Position orders the
// questions inside a role.
type QuestionBankEntry struct {
	Role             string         `gorm:"column:role;type:text;primaryKey" json:"role"`
	Position         int            `gorm:"column:position;type:integer;primaryKey" json:"position"`
	QuestionID       int            `gorm:"column:question_id;type:integer" json:"question_id"`
	Text             string         `gorm:"column:text;type:text" json:"text"`
	ExpectedPoints   pq.StringArray `gorm:"column:expected_points;type:text[]" json:"expected_points"`
	TimeLimitSeconds int            `gorm:"column:time_limit_seconds;type:integer" json:"time_limit_seconds"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (QuestionBankEntry) TableName() string { return "question_bank" }
