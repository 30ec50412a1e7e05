package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerTranscript holds the transcription of one answer and the assessment
// of it against the question's expected points.
type AnswerTranscript struct {
	ID            string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID     string         `gorm:"column:session_id;type:uuid;uniqueIndex:uniq_transcript_answer" json:"session_id"`
	QuestionIndex int            `gorm:"column:question_index;type:integer;uniqueIndex:uniq_transcript_answer" json:"question_index"`
	Question      string         `gorm:"column:question;type:text" json:"question"`
	Text          string         `gorm:"column:text;type:text" json:"text"`
	Confidence    float64        `gorm:"column:confidence;type:double precision" json:"confidence"`
	Assessment    string         `gorm:"column:assessment;type:text" json:"assessment"`
	Metadata      datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt     time.Time      `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (AnswerTranscript) TableName() string { return "answer_transcripts" }
