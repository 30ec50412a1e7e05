package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/observe"
	"github.com/yoockh/yoointerview/internal/providers/llm"
	"github.com/yoockh/yoointerview/internal/providers/stt"
	"github.com/yoockh/yoointerview/internal/pubsub"
	"github.com/yoockh/yoointerview/internal/services"
)

// AudioWorkerPool consumes answer jobs from a Redis stream: it assembles the
// buffered audio, transcribes it and assesses the transcript against the
// question's expected points.
type AudioWorkerPool struct {
	Redis       *redis.Client
	Audio       services.AudioService
	Transcripts services.TranscriptService
	Events      pubsub.Publisher
	NumWorkers  int

	STT stt.Provider
	LLM llm.Provider

	Metrics *observe.Metrics
	Logger  *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

// AnswerJob is one recorded answer waiting for transcription.
type AnswerJob struct {
	MessageID      string
	SessionID      string
	QuestionIndex  int
	Question       string
	ExpectedPoints []string
	Language       string
}

func (p *AudioWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Audio == nil || p.Transcripts == nil || p.STT == nil || p.LLM == nil {
		return errors.New("AudioWorkerPool missing dependency: Redis/Audio/Transcripts/STT/LLM must be set")
	}
	p.defaults()

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	p.Logger.WithFields(logrus.Fields{"stream": p.Stream, "workers": p.NumWorkers}).Info("answer workers started")
	return nil
}

func (p *AudioWorkerPool) defaults() {
	if p.Stream == "" {
		p.Stream = "answer:audio"
	}
	if p.Group == "" {
		p.Group = "stt"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	if p.Metrics == nil {
		p.Metrics = observe.NopMetrics()
	}
}

func (p *AudioWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				if job, ok := ParseJob(msg); ok {
					p.process(ctx, job)
				} else {
					p.Logger.WithField("redis_id", msg.ID).Warn("dropping malformed answer job")
				}
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

// ParseJob reads the fields written by the interview service.
func ParseJob(msg redis.XMessage) (AnswerJob, bool) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	job := AnswerJob{
		MessageID: msg.ID,
		SessionID: getStr("session_id"),
		Question:  getStr("question"),
		Language:  stt.NormalizeLanguage(getStr("language")),
	}
	idx, err := strconv.Atoi(getStr("question_index"))
	if job.SessionID == "" || err != nil || idx < 0 {
		return AnswerJob{}, false
	}
	job.QuestionIndex = idx
	if raw := getStr("expected_points"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &job.ExpectedPoints)
	}
	return job, true
}

func (p *AudioWorkerPool) publish(ctx context.Context, channel string, v map[string]any) {
	if p.Events == nil {
		return
	}
	_ = p.Events.PublishJSON(ctx, channel, v)
}

func (p *AudioWorkerPool) status(ctx context.Context, job AnswerJob, status, message string) {
	p.publish(ctx, pubsub.StatusChannel(job.SessionID), map[string]any{
		"type":           "transcription",
		"status":         status,
		"message":        message,
		"question_index": job.QuestionIndex,
	})
}

func (p *AudioWorkerPool) process(ctx context.Context, job AnswerJob) {
	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":       job.MessageID,
		"session_id":     job.SessionID,
		"question_index": job.QuestionIndex,
	})
	respCh := pubsub.ResponseChannel(job.SessionID)

	audio, err := p.Audio.Assemble(ctx, job.SessionID, job.QuestionIndex)
	if err != nil {
		log.WithError(err).Warn("no audio to transcribe")
		p.status(ctx, job, models.STTFailed, "no audio for answer")
		return
	}

	// STT
	_ = p.Audio.MarkStatus(ctx, job.SessionID, job.QuestionIndex, models.STTProcessing)
	p.status(ctx, job, models.STTProcessing, "stt processing")

	start := time.Now()
	text, conf, err := p.STT.Transcribe(ctx, audio, job.Language)
	p.Metrics.STTDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.Bool("ok", err == nil)))
	if err != nil {
		log.WithError(err).Error("stt failed")
		_ = p.Audio.MarkStatus(ctx, job.SessionID, job.QuestionIndex, models.STTFailed)
		p.status(ctx, job, models.STTFailed, "stt failed")
		return
	}
	_ = p.Audio.MarkStatus(ctx, job.SessionID, job.QuestionIndex, models.STTDone)

	p.publish(ctx, respCh, map[string]any{
		"type":           "stt_result",
		"question_index": job.QuestionIndex,
		"text":           text,
		"confidence":     conf,
		"is_final":       true,
	})

	// LLM
	p.status(ctx, job, models.STTProcessing, "llm processing")
	start = time.Now()
	assessment, err := llm.Collect(ctx, p.LLM, llm.AssessmentPrompt(job.Question, job.ExpectedPoints, text), func(seq int, chunk string) {
		p.publish(ctx, respCh, map[string]any{
			"type":           "llm_chunk",
			"question_index": job.QuestionIndex,
			"seq":            seq,
			"chunk":          chunk,
		})
	})
	procMS := time.Since(start).Milliseconds()
	p.Metrics.LLMDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.Bool("ok", err == nil)))
	if err != nil {
		// Save the transcript without an assessment.
		log.WithError(err).Error("llm assessment failed")
		assessment = ""
	}

	covered := llm.CoveredPoints(job.ExpectedPoints, text)
	if _, serr := p.Transcripts.Save(ctx, services.TranscriptInput{
		SessionID:     job.SessionID,
		QuestionIndex: job.QuestionIndex,
		Question:      job.Question,
		Text:          text,
		Confidence:    conf,
		Assessment:    assessment,
		Metadata: map[string]any{
			"language":           job.Language,
			"expected_points":    job.ExpectedPoints,
			"covered_points":     covered,
			"processing_time_ms": procMS,
			"assessed":           err == nil,
		},
	}); serr != nil {
		log.WithError(serr).Error("failed to save transcript")
		p.status(ctx, job, models.STTFailed, "failed to save transcript")
		return
	}

	p.publish(ctx, respCh, map[string]any{
		"type":               "llm_complete",
		"question_index":     job.QuestionIndex,
		"full_response":      assessment,
		"covered_points":     covered,
		"processing_time_ms": procMS,
	})
	p.status(ctx, job, models.STTDone, "answer processed")
	log.WithField("covered_points", len(covered)).Info("answer transcribed")
}
