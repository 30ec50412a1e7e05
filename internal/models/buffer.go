package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnswerAudio is one chunk of a candidate's recorded answer, kept until the
// TTL index expires it.
type AnswerAudio struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID     string             `bson:"session_id" json:"session_id"`
	QuestionIndex int                `bson:"question_index" json:"question_index"`
	ChunkIndex    int64              `bson:"chunk_index" json:"chunk_index"`

	AudioBase64 string `bson:"audio_base64" json:"-"`
	STTStatus   string `bson:"stt_status" json:"stt_status"` // pending|processing|done|failed

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

const (
	STTPending    = "pending"
	STTProcessing = "processing"
	STTDone       = "done"
	STTFailed     = "failed"
)
