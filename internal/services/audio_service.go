package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"

	"github.com/yoockh/yoointerview/internal/interview"
	"github.com/yoockh/yoointerview/internal/models"
	mongorepo "github.com/yoockh/yoointerview/internal/repositories/mongo"
	"github.com/yoockh/yoointerview/internal/utils"
)

// maxChunkBytes bounds one decoded audio chunk.
const maxChunkBytes = 2 << 20

// AudioService buffers the chunks of a recorded answer until the worker
// assembles them for transcription.
type AudioService interface {
	Ingest(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, audioBase64 string) (*models.AnswerAudio, error)
	Assemble(ctx context.Context, sessionID string, questionIndex int) ([]byte, error)
	MarkStatus(ctx context.Context, sessionID string, questionIndex int, status string) error
}

// LiveSessions reports the running state of an interview. Implemented by
// InterviewService.
type LiveSessions interface {
	Live(ctx context.Context, sessionID string) (interview.Snapshot, error)
}

type audioService struct {
	chunks   mongorepo.AudioRepository
	sessions LiveSessions
}

// NewAudioService stores chunks only for active interviews when sessions is
// set.
func NewAudioService(chunks mongorepo.AudioRepository, sessions LiveSessions) AudioService {
	return &audioService{chunks: chunks, sessions: sessions}
}

// stripDataURL removes a "data:audio/webm;base64," prefix.
func stripDataURL(v string) string {
	if strings.HasPrefix(v, "data:") {
		if i := strings.Index(v, ","); i >= 0 {
			return v[i+1:]
		}
	}
	return v
}

func (s *audioService) Ingest(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, audioBase64 string) (*models.AnswerAudio, error) {
	const op = "AudioService.Ingest"

	if sessionID == "" || questionIndex < 0 || chunkIndex <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required and chunk_index must be > 0", nil)
	}
	raw := stripDataURL(strings.TrimSpace(audioBase64))
	if raw == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio_base64 is required", nil)
	}
	if base64.StdEncoding.DecodedLen(len(raw)) > maxChunkBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio chunk is too large", nil)
	}
	if _, err := base64.StdEncoding.DecodeString(raw); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid audio_base64", err)
	}
	if err := s.acceptsAnswer(ctx, sessionID, questionIndex); err != nil {
		return nil, err
	}

	doc := &models.AnswerAudio{
		SessionID:     sessionID,
		QuestionIndex: questionIndex,
		ChunkIndex:    chunkIndex,
		AudioBase64:   raw,
		STTStatus:     models.STTPending,
	}
	if err := s.chunks.InsertChunk(ctx, doc); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store audio chunk", err)
	}
	return doc, nil
}

// acceptsAnswer checks that the interview is still running and has already
// reached questionIndex.
func (s *audioService) acceptsAnswer(ctx context.Context, sessionID string, questionIndex int) error {
	const op = "AudioService.Ingest"

	if s.sessions == nil {
		return nil
	}
	snap, err := s.sessions.Live(ctx, sessionID)
	if err != nil {
		return err
	}
	if snap.State != interview.StateActive {
		return utils.E(utils.CodeConflict, op, "interview is not active", nil)
	}
	if questionIndex >= snap.TotalQuestions || questionIndex > snap.QuestionIndex {
		return utils.E(utils.CodeInvalidArgument, op, "question_index is out of range", nil)
	}
	return nil
}

func (s *audioService) Assemble(ctx context.Context, sessionID string, questionIndex int) ([]byte, error) {
	const op = "AudioService.Assemble"

	chunks, err := s.chunks.ListByAnswer(ctx, sessionID, questionIndex)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load audio", err)
	}
	if len(chunks) == 0 {
		return nil, utils.E(utils.CodeNotFound, op, "no audio for answer", nil)
	}

	var buf bytes.Buffer
	for _, c := range chunks {
		b, err := base64.StdEncoding.DecodeString(stripDataURL(c.AudioBase64))
		if err != nil {
			return nil, utils.E(utils.CodeInvalidArgument, op, "stored audio chunk is corrupt", err)
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

func (s *audioService) MarkStatus(ctx context.Context, sessionID string, questionIndex int, status string) error {
	const op = "AudioService.MarkStatus"

	switch status {
	case models.STTPending, models.STTProcessing, models.STTDone, models.STTFailed:
	default:
		return utils.E(utils.CodeInvalidArgument, op, "unknown status", nil)
	}
	if err := s.chunks.SetStatus(ctx, sessionID, questionIndex, status); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update audio status", err)
	}
	return nil
}
