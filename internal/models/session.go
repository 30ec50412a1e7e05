package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterviewSession is the persisted view of a live interview, refreshed on
// every state event.
type InterviewSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`

	RecruiterID    string `bson:"recruiter_id" json:"recruiter_id"`
	CandidateID    string `bson:"candidate_id" json:"candidate_id"`
	CandidateName  string `bson:"candidate_name" json:"candidate_name"`
	CandidateEmail string `bson:"candidate_email,omitempty" json:"candidate_email,omitempty"`
	Position       string `bson:"position" json:"position"`
	Role           string `bson:"role" json:"role"`

	DurationMinutes int    `bson:"duration_minutes" json:"duration_minutes"`
	JoinCodeHash    string `bson:"join_code_hash" json:"-"`

	Status         string         `bson:"status" json:"status"` // waiting|active|completed|disconnected|closed
	Reason         string         `bson:"reason,omitempty" json:"reason,omitempty"`
	QuestionIndex  int            `bson:"question_index" json:"question_index"`
	TotalQuestions int            `bson:"total_questions" json:"total_questions"`
	Answers        []AnswerRecord `bson:"answers,omitempty" json:"answers,omitempty"`

	OverallScore   *int   `bson:"overall_score,omitempty" json:"overall_score,omitempty"`
	Recommendation string `bson:"recommendation,omitempty" json:"recommendation,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	JoinedAt  *time.Time `bson:"joined_at,omitempty" json:"joined_at,omitempty"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

type AnswerRecord struct {
	QuestionIndex int    `bson:"question_index" json:"question_index"`
	Seconds       int    `bson:"seconds" json:"seconds"`
	VoiceDetected bool   `bson:"voice_detected" json:"voice_detected"`
	Bucket        string `bson:"bucket" json:"bucket"`
	Label         string `bson:"label" json:"label"`
}

const SessionStatusClosed = "closed"
