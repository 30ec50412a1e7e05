package workers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/pubsub"
	"github.com/yoockh/yoointerview/internal/services"
	"github.com/yoockh/yoointerview/internal/utils"
)

type fakeAudio struct {
	audio    []byte
	statuses []string
}

func (f *fakeAudio) Ingest(context.Context, string, int, int64, string) (*models.AnswerAudio, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAudio) Assemble(context.Context, string, int) ([]byte, error) {
	if f.audio == nil {
		return nil, utils.E(utils.CodeNotFound, "fake", "no audio", nil)
	}
	return f.audio, nil
}

func (f *fakeAudio) MarkStatus(_ context.Context, _ string, _ int, status string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

type fakeTranscripts struct {
	saved []services.TranscriptInput
}

func (f *fakeTranscripts) Save(_ context.Context, in services.TranscriptInput) (*models.AnswerTranscript, error) {
	f.saved = append(f.saved, in)
	return &models.AnswerTranscript{SessionID: in.SessionID}, nil
}

func (f *fakeTranscripts) ListBySession(context.Context, string) ([]models.AnswerTranscript, error) {
	return nil, nil
}

type fakeSTT struct {
	text string
	err  error
	lang string
}

func (f *fakeSTT) Transcribe(_ context.Context, _ []byte, language string) (string, float64, error) {
	f.lang = language
	return f.text, 0.9, f.err
}

func (f *fakeSTT) Close() error { return nil }

type fakeLLM struct {
	chunks []string
	err    error
	prompt string
}

func (f *fakeLLM) StreamAnswer(_ context.Context, prompt string) (<-chan string, <-chan error) {
	f.prompt = prompt
	out := make(chan string, len(f.chunks))
	errs := make(chan error, 1)
	for _, c := range f.chunks {
		out <- c
	}
	close(out)
	if f.err != nil {
		errs <- f.err
	}
	close(errs)
	return out, errs
}

func (f *fakeLLM) Close() error { return nil }

type recorder struct {
	mu   sync.Mutex
	msgs map[string][]map[string]any
}

func (r *recorder) PublishJSON(_ context.Context, channel string, v any) error {
	b, _ := json.Marshal(v)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.msgs == nil {
		r.msgs = map[string][]map[string]any{}
	}
	r.msgs[channel] = append(r.msgs[channel], m)
	return nil
}

func (r *recorder) types(channel string) []string {
	var out []string
	for _, m := range r.msgs[channel] {
		out = append(out, m["type"].(string))
	}
	return out
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newPool(audio *fakeAudio, tr *fakeTranscripts, s *fakeSTT, l *fakeLLM, ev *recorder) *AudioWorkerPool {
	p := &AudioWorkerPool{Audio: audio, Transcripts: tr, Events: ev, STT: s, LLM: l, Logger: quietLogger()}
	p.defaults()
	return p
}

func sampleJob() AnswerJob {
	return AnswerJob{
		SessionID:      "s-1",
		QuestionIndex:  1,
		Question:       "How do you handle failures?",
		ExpectedPoints: []string{"Retries", "Alerting"},
		Language:       "en-US",
	}
}

func TestParseJob(t *testing.T) {
	job, ok := ParseJob(redis.XMessage{ID: "1-0", Values: map[string]any{
		"session_id":      "s-1",
		"question_index":  "2",
		"question":        "Why Go?",
		"expected_points": `["Concurrency","Tooling"]`,
		"language":        "id",
	}})
	require.True(t, ok)
	assert.Equal(t, 2, job.QuestionIndex)
	assert.Equal(t, []string{"Concurrency", "Tooling"}, job.ExpectedPoints)
	assert.Equal(t, "id-ID", job.Language)

	_, ok = ParseJob(redis.XMessage{Values: map[string]any{"session_id": "s-1"}})
	assert.False(t, ok)
	_, ok = ParseJob(redis.XMessage{Values: map[string]any{"question_index": "1"}})
	assert.False(t, ok)
}

func TestProcess_TranscribesAndAssesses(t *testing.T) {
	audio := &fakeAudio{audio: []byte("pcm")}
	tr := &fakeTranscripts{}
	s := &fakeSTT{text: "I add retries with backoff"}
	l := &fakeLLM{chunks: []string{"Covers retries. ", "No alerting."}}
	ev := &recorder{}

	newPool(audio, tr, s, l, ev).process(context.Background(), sampleJob())

	assert.Equal(t, "en-US", s.lang)
	assert.Contains(t, l.prompt, "- Retries")
	assert.Equal(t, []string{models.STTProcessing, models.STTDone}, audio.statuses)

	require.Len(t, tr.saved, 1)
	saved := tr.saved[0]
	assert.Equal(t, "I add retries with backoff", saved.Text)
	assert.Equal(t, "Covers retries. No alerting.", saved.Assessment)
	assert.Equal(t, []string{"Retries"}, saved.Metadata["covered_points"])

	assert.Equal(t, []string{"stt_result", "llm_chunk", "llm_chunk", "llm_complete"}, ev.types(pubsub.ResponseChannel("s-1")))
	status := ev.msgs[pubsub.StatusChannel("s-1")]
	require.NotEmpty(t, status)
	assert.Equal(t, "done", status[len(status)-1]["status"])
}

func TestProcess_STTFailureStops(t *testing.T) {
	audio := &fakeAudio{audio: []byte("pcm")}
	tr := &fakeTranscripts{}
	ev := &recorder{}

	newPool(audio, tr, &fakeSTT{err: errors.New("quota")}, &fakeLLM{}, ev).process(context.Background(), sampleJob())

	assert.Empty(t, tr.saved)
	assert.Equal(t, []string{models.STTProcessing, models.STTFailed}, audio.statuses)
	assert.Empty(t, ev.types(pubsub.ResponseChannel("s-1")))
}

func TestProcess_LLMFailureKeepsTranscript(t *testing.T) {
	tr := &fakeTranscripts{}
	ev := &recorder{}

	newPool(&fakeAudio{audio: []byte("pcm")}, tr, &fakeSTT{text: "hello"}, &fakeLLM{err: errors.New("unavailable")}, ev).
		process(context.Background(), sampleJob())

	require.Len(t, tr.saved, 1)
	assert.Empty(t, tr.saved[0].Assessment)
	assert.Equal(t, false, tr.saved[0].Metadata["assessed"])
}

func TestProcess_NoAudio(t *testing.T) {
	tr := &fakeTranscripts{}
	s := &fakeSTT{}
	ev := &recorder{}

	newPool(&fakeAudio{}, tr, s, &fakeLLM{}, ev).process(context.Background(), sampleJob())

	assert.Empty(t, tr.saved)
	assert.Empty(t, s.lang)
	status := ev.msgs[pubsub.StatusChannel("s-1")]
	require.Len(t, status, 1)
	assert.Equal(t, "failed", status[0]["status"])
}
