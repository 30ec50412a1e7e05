package feedback

import "fmt"

type Bucket string

const (
	BucketNone      Bucket = "none"
	BucketVeryBrief Bucket = "very brief"
	BucketBrief     Bucket = "brief"
	BucketDetailed  Bucket = "detailed"
)

// Recording length thresholds in seconds.
const (
	briefFromSeconds    = 5
	detailedFromSeconds = 10
)

// Answer is the record of one question's response. Seconds is the recorded
// length; VoiceDetected reports whether the recording crossed the activity
// threshold.
type Answer struct {
	QuestionIndex int    `json:"question_index"`
	Seconds       int    `json:"seconds"`
	VoiceDetected bool   `json:"voice_detected"`
	Bucket        Bucket `json:"bucket"`
	Label         string `json:"label"`
}

func NewAnswer(questionIndex, seconds int, voiceDetected bool) Answer {
	if seconds < 0 {
		seconds = 0
	}
	b := Classify(seconds, voiceDetected)
	return Answer{
		QuestionIndex: questionIndex,
		Seconds:       seconds,
		VoiceDetected: voiceDetected,
		Bucket:        b,
		Label:         label(b, seconds),
	}
}

// NoAnswer is recorded for a question that was skipped or timed out.
func NoAnswer(questionIndex int) Answer {
	return NewAnswer(questionIndex, 0, false)
}

func Classify(seconds int, voiceDetected bool) Bucket {
	switch {
	case !voiceDetected:
		return BucketNone
	case seconds < briefFromSeconds:
		return BucketVeryBrief
	case seconds < detailedFromSeconds:
		return BucketBrief
	default:
		return BucketDetailed
	}
}

// Substantive reports whether the answer counts towards the response rate.
func (a Answer) Substantive() bool {
	return a.VoiceDetected && a.Bucket != BucketNone
}

func (a Answer) String() string { return a.Label }

func label(b Bucket, seconds int) string {
	if b == BucketNone {
		return fmt.Sprintf("No voice response detected (%ds)", seconds)
	}
	return fmt.Sprintf("Voice response recorded (%ds, %s answer)", seconds, b)
}
