package mongo

import (
	"context"
	"time"

	"github.com/yoockh/yoointerview/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AudioRepository interface {
	InsertChunk(ctx context.Context, a *models.AnswerAudio) error
	ListByAnswer(ctx context.Context, sessionID string, questionIndex int) ([]models.AnswerAudio, error)
	SetStatus(ctx context.Context, sessionID string, questionIndex int, status string) error
}

type audioRepo struct {
	col *mongo.Collection
	ttl time.Duration
}

func NewAudioRepo(db *mongo.Database, ttl time.Duration) AudioRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &audioRepo{col: db.Collection("answer_audio"), ttl: ttl}
}

func (r *audioRepo) InsertChunk(ctx context.Context, a *models.AnswerAudio) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	if a.ExpiresAt.IsZero() {
		a.ExpiresAt = a.Timestamp.Add(r.ttl)
	}
	if a.STTStatus == "" {
		a.STTStatus = models.STTPending
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *audioRepo) ListByAnswer(ctx context.Context, sessionID string, questionIndex int) ([]models.AnswerAudio, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"session_id": sessionID, "question_index": questionIndex},
		options.Find().SetSort(bson.D{{Key: "chunk_index", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AnswerAudio
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *audioRepo) SetStatus(ctx context.Context, sessionID string, questionIndex int, status string) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"session_id": sessionID, "question_index": questionIndex},
		bson.M{"$set": bson.M{"stt_status": status}},
	)
	return err
}
