package feedback

import (
	"fmt"
	"strings"
)

const weakScoreBelow = 40

// Narrative builds the feedback paragraph shown to the recruiter.
func Narrative(answered, total int, voiceDetected bool, speakingSeconds, overall int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Candidate answered %d of %d questions. ", answered, total)
	if voiceDetected {
		b.WriteString("Voice activity was detected during the interview. ")
	} else {
		b.WriteString("No voice activity was detected during the interview. ")
	}
	fmt.Fprintf(&b, "Total speaking time: %s. ", FormatClock(speakingSeconds))

	switch {
	case overall >= RecommendationThreshold:
		b.WriteString("The candidate communicated clearly and engaged with every topic; recommended for the next stage.")
	case overall >= weakScoreBelow:
		b.WriteString("The candidate showed adequate engagement, but several answers lacked depth.")
	default:
		b.WriteString("The candidate gave limited responses and would benefit from more preparation.")
	}
	return b.String()
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
