package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type InterviewFeedback struct {
	ID             string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID      string `gorm:"column:session_id;type:uuid;uniqueIndex" json:"session_id"`
	RecruiterID    string `gorm:"column:recruiter_id;type:text;index" json:"recruiter_id"`
	CandidateID    string `gorm:"column:candidate_id;type:text;index" json:"candidate_id"`
	CandidateName  string `gorm:"column:candidate_name;type:text" json:"candidate_name"`
	CandidateEmail string `gorm:"column:candidate_email;type:text" json:"candidate_email,omitempty"`
	Position       string `gorm:"column:position;type:text" json:"position"`

	Communication  int `gorm:"column:communication;type:integer" json:"communication"`
	Technical      int `gorm:"column:technical;type:integer" json:"technical"`
	ProblemSolving int `gorm:"column:problem_solving;type:integer" json:"problem_solving"`
	Cultural       int `gorm:"column:cultural;type:integer" json:"cultural"`
	OverallScore   int `gorm:"column:overall_score;type:integer;index" json:"overall_score"`

	Recommendation string `gorm:"column:recommendation;type:text" json:"recommendation"`
	FeedbackText   string `gorm:"column:feedback_text;type:text" json:"feedback_text"`

	AnswerLabels pq.StringArray `gorm:"column:answer_labels;type:text[]" json:"answer_labels"`
	Answers      datatypes.JSON `gorm:"column:answers;type:jsonb" json:"answers"`

	DurationSeconds   int     `gorm:"column:duration_seconds;type:integer" json:"interview_duration_seconds"`
	QuestionsAnswered int     `gorm:"column:questions_answered;type:integer" json:"questions_answered"`
	TotalQuestions    int     `gorm:"column:total_questions;type:integer" json:"total_questions"`
	ResponseRate      float64 `gorm:"column:response_rate;type:double precision" json:"response_rate"`
	VoiceDetected     bool    `gorm:"column:voice_detected;type:boolean" json:"voice_detected"`

	ArchiveURL string     `gorm:"column:archive_url;type:text" json:"archive_url,omitempty"`
	NotifiedAt *time.Time `gorm:"column:notified_at;type:timestamptz" json:"notified_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (InterviewFeedback) TableName() string { return "interview_feedback" }
