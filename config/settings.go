package config

import (
	"os"
	"time"

	"github.com/gotify/configor"
)

var Settings *Configuration

type Configuration struct {
	App       AppSettings
	Interview InterviewSettings
	Questions QuestionSettings
	Audio     AudioSettings
	Smtp      SmtpSettings
	Storage   StorageSettings
	Vertex    VertexSettings
}

type AppSettings struct {
	Name     string `default:"yoointerview" env:"APP_NAME"`
	Port     int    `default:"8080" env:"PORT"`
	LogLevel string `default:"info" env:"LOG_LEVEL"`
}

type InterviewSettings struct {
	DurationMinutes          int `default:"30" env:"INTERVIEW_DURATION_MINUTES"`
	JoinWaitSeconds          int `default:"300" env:"INTERVIEW_JOIN_WAIT_SECONDS"`
	SettleSeconds            int `default:"3" env:"INTERVIEW_SETTLE_SECONDS"`
	TransitionSeconds        int `default:"2" env:"INTERVIEW_TRANSITION_SECONDS"`
	AnswerDelaySeconds       int `default:"1" env:"INTERVIEW_ANSWER_DELAY_SECONDS"`
	ActivityThresholdSeconds int `default:"3" env:"INTERVIEW_ACTIVITY_THRESHOLD_SECONDS"`
	NarrationTimeoutSeconds  int `default:"5" env:"INTERVIEW_NARRATION_TIMEOUT_SECONDS"`
}

type QuestionSettings struct {
	BankFile        string `default:"" env:"QUESTION_BANK_FILE"`
	CacheTTLSeconds int    `default:"600" env:"QUESTION_CACHE_TTL_SECONDS"`
}

type AudioSettings struct {
	Workers         int    `default:"4" env:"AUDIO_WORKERS"`
	Stream          string `default:"answer:audio" env:"AUDIO_STREAM"`
	Group           string `default:"stt" env:"AUDIO_GROUP"`
	ChunkTTLMinutes int    `default:"60" env:"AUDIO_CHUNK_TTL_MINUTES"`
	LanguageCode    string `default:"en-US" env:"AUDIO_LANGUAGE"`
	SampleRateHertz int    `default:"16000" env:"AUDIO_SAMPLE_RATE_HZ"`
}

type SmtpSettings struct {
	User       string `default:"" env:"SMTP_USER"`
	Password   string `default:"" env:"SMTP_PASSWORD"`
	Host       string `default:"" env:"SMTP_HOST"`
	Port       string `default:"" env:"SMTP_PORT"`
	From       string `default:"" env:"SMTP_FROM"`
	TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
}

type StorageSettings struct {
	FeedbackBucket string `default:"" env:"FEEDBACK_BUCKET"`
}

type VertexSettings struct {
	ProjectID string `default:"" env:"GCP_PROJECT_ID"`
	Location  string `default:"us-central1" env:"GCP_LOCATION"`
	Model     string `default:"gemini-1.5-flash" env:"VERTEX_MODEL"`
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func (s InterviewSettings) JoinWait() time.Duration          { return seconds(s.JoinWaitSeconds) }
func (s InterviewSettings) SettleDelay() time.Duration       { return seconds(s.SettleSeconds) }
func (s InterviewSettings) TransitionDelay() time.Duration   { return seconds(s.TransitionSeconds) }
func (s InterviewSettings) AnswerDelay() time.Duration       { return seconds(s.AnswerDelaySeconds) }
func (s InterviewSettings) ActivityThreshold() time.Duration { return seconds(s.ActivityThresholdSeconds) }
func (s InterviewSettings) NarrationTimeout() time.Duration  { return seconds(s.NarrationTimeoutSeconds) }

func (s QuestionSettings) CacheTTL() time.Duration { return seconds(s.CacheTTLSeconds) }

func (s AudioSettings) ChunkTTL() time.Duration { return time.Duration(s.ChunkTTLMinutes) * time.Minute }

// TLS reports whether mail is sent over implicit TLS.
func (s SmtpSettings) TLS() bool { return s.TLSEnabled == nil || *s.TLSEnabled }

func configFiles() []string {
	if f := os.Getenv("CONFIG_FILE"); f != "" {
		return []string{f}
	}
	return []string{"config.yml"}
}

// LoadSettings reads settings from the config files and the environment.
func LoadSettings(files ...string) (*Configuration, error) {
	if len(files) == 0 {
		files = configFiles()
	}
	conf := new(Configuration)
	if err := configor.New(&configor.Config{}).Load(conf, files...); err != nil {
		return nil, err
	}
	return conf, nil
}

func InitSettings() error {
	if Settings != nil {
		return nil
	}
	conf, err := LoadSettings()
	if err != nil {
		return err
	}
	Settings = conf
	return nil
}
