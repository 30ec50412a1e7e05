// Package feedback turns the answers of a finished interview into category
// scores, an overall score, a recommendation and a short narrative.
package feedback

import (
	"math"
	"math/rand"
	"time"
)

// RecommendationThreshold is the lowest overall score that is recommended for
// selection. Notification gating uses the same constant.
const RecommendationThreshold = 70

const scoreCeiling = 100

type Recommendation string

const (
	RecommendationSelected Recommendation = "selected"
	RecommendationRejected Recommendation = "rejected"
)

func RecommendationFor(overallScore int) Recommendation {
	if overallScore >= RecommendationThreshold {
		return RecommendationSelected
	}
	return RecommendationRejected
}

// RandSource is satisfied by *rand.Rand.
type RandSource interface {
	Intn(n int) int
}

func NewRandSource() RandSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

type Scores struct {
	Communication  int `json:"communication"`
	Technical      int `json:"technical"`
	ProblemSolving int `json:"problem_solving"`
	Cultural       int `json:"cultural"`
}

// Overall is the integer mean of the four categories.
func (s Scores) Overall() int {
	return (s.Communication + s.Technical + s.ProblemSolving + s.Cultural) / 4
}

type Input struct {
	CandidateID    string
	CandidateName  string
	Position       string
	Answers        []Answer
	TotalQuestions int
	HasSpoken      bool
	ElapsedSeconds int
}

type Result struct {
	CandidateID              string         `json:"candidate_id"`
	CandidateName            string         `json:"candidate_name"`
	Position                 string         `json:"position"`
	Scores                   Scores         `json:"scores"`
	OverallScore             int            `json:"overall_score"`
	Recommendation           Recommendation `json:"recommendation"`
	FeedbackText             string         `json:"feedback_text"`
	Answers                  []Answer       `json:"answers"`
	InterviewDurationSeconds int            `json:"interview_duration_seconds"`
	QuestionsAnswered        int            `json:"questions_answered"`
	TotalQuestions           int            `json:"total_questions"`
	ResponseRate             float64        `json:"response_rate"`
	VoiceDetected            bool           `json:"voice_detected"`
}

// Labels returns the answer labels in question order.
func (r Result) Labels() []string {
	out := make([]string, len(r.Answers))
	for i, a := range r.Answers {
		out[i] = a.Label
	}
	return out
}

type category struct {
	floor      int
	span       int
	voiceBonus int
	jitter     int
}

var (
	communication  = category{floor: 20, span: 70, voiceBonus: 5, jitter: 6}
	technical      = category{floor: 15, span: 75, voiceBonus: 5, jitter: 6}
	problemSolving = category{floor: 20, span: 70, voiceBonus: 5, jitter: 6}
	cultural       = category{floor: 25, span: 65, voiceBonus: 5, jitter: 6}
)

// Floors exposes the lower bound of each category.
func Floors() Scores {
	return Scores{
		Communication:  communication.floor,
		Technical:      technical.floor,
		ProblemSolving: problemSolving.floor,
		Cultural:       cultural.floor,
	}
}

type Generator struct {
	rnd RandSource
}

func NewGenerator(rnd RandSource) *Generator {
	if rnd == nil {
		rnd = NewRandSource()
	}
	return &Generator{rnd: rnd}
}

func (g *Generator) Generate(in Input) Result {
	answered := 0
	for _, a := range in.Answers {
		if a.Substantive() {
			answered++
		}
	}

	rate := 0.0
	if in.TotalQuestions > 0 {
		rate = float64(answered) / float64(in.TotalQuestions)
	}
	if rate > 1 {
		rate = 1
	}

	scores := Scores{
		Communication:  g.score(communication, rate, in.HasSpoken),
		Technical:      g.score(technical, rate, in.HasSpoken),
		ProblemSolving: g.score(problemSolving, rate, in.HasSpoken),
		Cultural:       g.score(cultural, rate, in.HasSpoken),
	}
	overall := scores.Overall()

	answers := append([]Answer(nil), in.Answers...)
	elapsed := in.ElapsedSeconds
	if elapsed < 0 {
		elapsed = 0
	}

	return Result{
		CandidateID:              in.CandidateID,
		CandidateName:            in.CandidateName,
		Position:                 in.Position,
		Scores:                   scores,
		OverallScore:             overall,
		Recommendation:           RecommendationFor(overall),
		FeedbackText:             Narrative(answered, in.TotalQuestions, in.HasSpoken, speakingSeconds(answers), overall),
		Answers:                  answers,
		InterviewDurationSeconds: elapsed,
		QuestionsAnswered:        answered,
		TotalQuestions:           in.TotalQuestions,
		ResponseRate:             rate,
		VoiceDetected:            in.HasSpoken,
	}
}

func (g *Generator) score(c category, rate float64, hasSpoken bool) int {
	if rate <= 0 {
		return c.floor
	}
	v := c.floor + int(math.Round(float64(c.span)*rate))
	if hasSpoken {
		v += c.voiceBonus
	}
	if c.jitter > 0 {
		v += g.rnd.Intn(c.jitter)
	}
	return clamp(v, c.floor, scoreCeiling)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func speakingSeconds(answers []Answer) int {
	total := 0
	for _, a := range answers {
		total += a.Seconds
	}
	return total
}
