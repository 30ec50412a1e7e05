package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionProgress is the mutable part of a session document.
type SessionProgress struct {
	Status         string
	Reason         string
	QuestionIndex  int
	TotalQuestions int
	Answers        []models.AnswerRecord
}

type SessionRepository interface {
	Create(ctx context.Context, s *models.InterviewSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	UpdateProgress(ctx context.Context, sessionID string, p SessionProgress) error
	MarkJoined(ctx context.Context, sessionID string, at time.Time) error
	Finish(ctx context.Context, sessionID string, p SessionProgress, overallScore *int, recommendation string, endedAt time.Time) error
	ListByRecruiter(ctx context.Context, recruiterID string, limit int64) ([]models.InterviewSession, error)
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection("interview_sessions")}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrAlreadyExists
	}
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func progressSet(p SessionProgress) bson.M {
	return bson.M{
		"status":          p.Status,
		"reason":          p.Reason,
		"question_index":  p.QuestionIndex,
		"total_questions": p.TotalQuestions,
		"answers":         p.Answers,
		"updated_at":      time.Now().UTC(),
	}
}

func (r *sessionRepo) UpdateProgress(ctx context.Context, sessionID string, p SessionProgress) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": progressSet(p)},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) MarkJoined(ctx context.Context, sessionID string, at time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "joined_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"joined_at": at.UTC()}},
	)
	return err
}

func (r *sessionRepo) Finish(ctx context.Context, sessionID string, p SessionProgress, overallScore *int, recommendation string, endedAt time.Time) error {
	set := progressSet(p)
	set["ended_at"] = endedAt.UTC()
	if overallScore != nil {
		set["overall_score"] = *overallScore
		set["recommendation"] = recommendation
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"session_id": sessionID}, bson.M{"$set": set})
	return err
}

func (r *sessionRepo) ListByRecruiter(ctx context.Context, recruiterID string, limit int64) ([]models.InterviewSession, error) {
	if limit <= 0 {
		limit = 50
	}
	cur, err := r.col.Find(ctx,
		bson.M{"recruiter_id": recruiterID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewSession
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
