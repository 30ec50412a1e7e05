package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yoockh/yoointerview/internal/models"
	pgrepo "github.com/yoockh/yoointerview/internal/repositories/postgres"
	"github.com/yoockh/yoointerview/internal/utils"
)

// TranscriptInput is one transcribed and assessed answer.
type TranscriptInput struct {
	SessionID     string
	QuestionIndex int
	Question      string
	Text          string
	Confidence    float64
	Assessment    string
	Metadata      map[string]any
}

type TranscriptService interface {
	Save(ctx context.Context, in TranscriptInput) (*models.AnswerTranscript, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.AnswerTranscript, error)
}

type transcriptService struct {
	repo pgrepo.TranscriptRepository
}

func NewTranscriptService(repo pgrepo.TranscriptRepository) TranscriptService {
	return &transcriptService{repo: repo}
}

func (s *transcriptService) Save(ctx context.Context, in TranscriptInput) (*models.AnswerTranscript, error) {
	const op = "TranscriptService.Save"

	if in.SessionID == "" || in.QuestionIndex < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id and question_index are required", nil)
	}

	meta := datatypes.JSON([]byte("{}"))
	if len(in.Metadata) > 0 {
		b, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid metadata", err)
		}
		meta = datatypes.JSON(b)
	}

	row := &models.AnswerTranscript{
		ID:            uuid.NewString(),
		SessionID:     in.SessionID,
		QuestionIndex: in.QuestionIndex,
		Question:      in.Question,
		Text:          strings.TrimSpace(in.Text),
		Confidence:    in.Confidence,
		Assessment:    strings.TrimSpace(in.Assessment),
		Metadata:      meta,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save transcript", err)
	}
	return row, nil
}

func (s *transcriptService) ListBySession(ctx context.Context, sessionID string) ([]models.AnswerTranscript, error) {
	const op = "TranscriptService.ListBySession"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	rows, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list transcripts", err)
	}
	return rows, nil
}
