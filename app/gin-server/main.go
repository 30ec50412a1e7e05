package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/yoointerview/config"
	"github.com/yoockh/yoointerview/internal/api/handlers"
	"github.com/yoockh/yoointerview/internal/api/middleware"
	"github.com/yoockh/yoointerview/internal/api/routes"
	"github.com/yoockh/yoointerview/internal/cache"
	"github.com/yoockh/yoointerview/internal/feedback"
	"github.com/yoockh/yoointerview/internal/logger"
	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/notify"
	"github.com/yoockh/yoointerview/internal/observe"
	"github.com/yoockh/yoointerview/internal/providers/llm"
	"github.com/yoockh/yoointerview/internal/providers/stt"
	"github.com/yoockh/yoointerview/internal/pubsub"
	"github.com/yoockh/yoointerview/internal/questions"
	mongorepo "github.com/yoockh/yoointerview/internal/repositories/mongo"
	pgrepo "github.com/yoockh/yoointerview/internal/repositories/postgres"
	"github.com/yoockh/yoointerview/internal/services"
	"github.com/yoockh/yoointerview/internal/storage"
	"github.com/yoockh/yoointerview/internal/workers"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	if err := config.InitSettings(); err != nil {
		logrus.Fatalf("settings init error: %v", err)
	}
	s := config.Settings
	log := logger.New(s.App.LogLevel)

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	log.Info("MongoDB connected")

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(&models.InterviewFeedback{}, &models.AnswerTranscript{}, &models.QuestionBankEntry{}); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	log.Info("Redis connected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, shutdownMetrics, err := observe.InitProvider(ctx, s.App.Name, version)
	if err != nil {
		log.Fatalf("metrics init error: %v", err)
	}

	// Repositories
	db := config.MongoDatabase()
	sessionRepo := mongorepo.NewSessionRepo(db)
	audioRepo := mongorepo.NewAudioRepo(db, s.Audio.ChunkTTL())
	feedbackRepo := pgrepo.NewFeedbackRepo(config.PostgresDB)
	transcriptRepo := pgrepo.NewTranscriptRepo(config.PostgresDB)
	questionRepo := pgrepo.NewQuestionRepo(config.PostgresDB)

	bus := pubsub.NewBus(config.RedisClient, logger.Component(log, "pubsub"))

	// Question catalogue: seed banks, optionally overridden from YAML.
	catalog := questions.Seed()
	if s.Questions.BankFile != "" {
		custom, err := questions.LoadYAML(s.Questions.BankFile)
		if err != nil {
			log.Fatalf("question bank error: %v", err)
		}
		catalog = catalog.Merge(custom)
	}

	// Optional integrations
	var uploader storage.Uploader
	if s.Storage.FeedbackBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, s.Storage.FeedbackBucket)
		if err != nil {
			log.WithError(err).Warn("feedback archive disabled")
		} else {
			defer gcs.Close()
			uploader = gcs
		}
	}

	var mailer notify.Mailer
	smtpMailer := notify.NewSMTPMailer(notify.SMTPConfig{
		User:       s.Smtp.User,
		Password:   s.Smtp.Password,
		Host:       s.Smtp.Host,
		Port:       s.Smtp.Port,
		From:       s.Smtp.From,
		TLSEnabled: s.Smtp.TLS(),
	})
	if smtpMailer.Configured() {
		mailer = smtpMailer
	} else {
		log.Warn("SMTP not configured, candidate emails disabled")
	}

	// Services
	questionSvc := services.NewQuestionService(questionRepo, cache.NewRedisCache(config.RedisClient, "yoointerview"), catalog, s.Questions.CacheTTL(), log)
	feedbackSvc := services.NewFeedbackService(feedbackRepo, uploader, mailer, metrics, log)
	transcriptSvc := services.NewTranscriptService(transcriptRepo)
	interviewSvc := services.NewInterviewService(services.InterviewDeps{
		Sessions:  sessionRepo,
		Questions: questionSvc,
		Feedback:  feedbackSvc,
		Narrator:  bus,
		Generator: feedback.NewGenerator(nil),
		Events:    bus,
		Jobs:      bus,
		Metrics:   metrics,
		Logger:    log,
		Options: services.InterviewOptions{
			DefaultDurationMinutes: s.Interview.DurationMinutes,
			JoinWait:               s.Interview.JoinWait(),
			SettleDelay:            s.Interview.SettleDelay(),
			TransitionDelay:        s.Interview.TransitionDelay(),
			AnswerDelay:            s.Interview.AnswerDelay(),
			ActivityThreshold:      s.Interview.ActivityThreshold(),
			NarrationTimeout:       s.Interview.NarrationTimeout(),
			AudioStream:            s.Audio.Stream,
			LanguageCode:           s.Audio.LanguageCode,
		},
	})

	audioSvc := services.NewAudioService(audioRepo, interviewSvc)

	// Answer transcription workers
	startWorkers(ctx, log, s, audioSvc, transcriptSvc, bus, metrics)

	// HTTP
	if strings.EqualFold(s.App.LogLevel, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.Metrics(metrics))

	routes.RegisterRoutes(r, routes.Deps{
		Interviews: handlers.NewInterviewHandler(interviewSvc, transcriptSvc),
		Candidates: handlers.NewCandidateHandler(interviewSvc),
		Feedback:   handlers.NewFeedbackHandler(feedbackSvc, interviewSvc),
		Questions:  handlers.NewQuestionHandler(questionSvc),
		WS:         handlers.NewWSHandler(interviewSvc, audioSvc, bus, allowedOrigins()),
		JWT:        middleware.JWTConfigFromEnv(),
		Metrics:    observe.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if err := interviewSvc.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("interview shutdown")
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("metrics shutdown")
	}
}

// startWorkers runs the answer pipeline when both Google providers are
// available. Interviews work without it; answers are then never transcribed.
func startWorkers(ctx context.Context, log *logrus.Logger, s *config.Configuration, audio services.AudioService, transcripts services.TranscriptService, bus *pubsub.Bus, metrics *observe.Metrics) {
	if s.Vertex.ProjectID == "" {
		log.Warn("GCP_PROJECT_ID not set, answer transcription disabled")
		return
	}

	speech, err := stt.NewGoogleSpeech(ctx, s.Audio.SampleRateHertz)
	if err != nil {
		log.WithError(err).Warn("speech client unavailable, answer transcription disabled")
		return
	}
	gemini, err := llm.NewVertexGemini(ctx, s.Vertex.ProjectID, s.Vertex.Location, s.Vertex.Model)
	if err != nil {
		_ = speech.Close()
		log.WithError(err).Warn("vertex client unavailable, answer transcription disabled")
		return
	}
	go func() {
		<-ctx.Done()
		_ = speech.Close()
		_ = gemini.Close()
	}()

	pool := &workers.AudioWorkerPool{
		Redis:       config.RedisClient,
		Audio:       audio,
		Transcripts: transcripts,
		Events:      bus,
		NumWorkers:  s.Audio.Workers,
		STT:         speech,
		LLM:         gemini,
		Metrics:     metrics,
		Logger:      log,
		Stream:      s.Audio.Stream,
		Group:       s.Audio.Group,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Error("answer workers failed to start")
	}
}

func allowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(os.Getenv("WS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
