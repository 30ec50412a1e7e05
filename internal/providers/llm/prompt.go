package llm

import (
	"fmt"
	"strings"
)

// AssessmentPrompt asks the model to judge a transcribed answer against the
// points the interviewer expects.
func AssessmentPrompt(question string, expectedPoints []string, transcript string) string {
	var b strings.Builder
	b.WriteString("You are assisting a recruiter reviewing a recorded interview answer. ")
	b.WriteString("Reply in at most three sentences and list which expected points were covered.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", question)
	if len(expectedPoints) > 0 {
		b.WriteString("Expected points:\n")
		for _, p := range expectedPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		transcript = "(no speech recognised)"
	}
	fmt.Fprintf(&b, "\nCandidate answer:\n%s\n", transcript)
	return b.String()
}

// CoveredPoints returns the expected points mentioned in text, matched case
// insensitively.
func CoveredPoints(expectedPoints []string, text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, p := range expectedPoints {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			out = append(out, p)
		}
	}
	return out
}
