package notify

import (
	"fmt"
	"strings"

	"github.com/yoockh/yoointerview/internal/feedback"
)

type Kind string

const (
	KindSelection Kind = "selection"
	KindRejection Kind = "rejection"
)

// KindFor picks the email for an overall score. Only the recommendation
// threshold decides.
func KindFor(overallScore int) Kind {
	if feedback.RecommendationFor(overallScore) == feedback.RecommendationSelected {
		return KindSelection
	}
	return KindRejection
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// SafeHeaderValue reports whether v can be written into a mail header as is.
func SafeHeaderValue(v string) bool { return !strings.ContainsAny(v, "\r\n") }

func headerValue(v string) string { return lineBreaks.Replace(v) }

type Message struct {
	Kind    Kind
	Subject string
	Body    string
}

func Compose(kind Kind, candidateName, position string) Message {
	name := strings.TrimSpace(headerValue(candidateName))
	position = strings.TrimSpace(headerValue(position))
	if name == "" {
		name = "Candidate"
	}
	if kind == KindSelection {
		return Message{
			Kind:    kind,
			Subject: fmt.Sprintf("Next steps for the %s role", position),
			Body: fmt.Sprintf("Dear %s,\n\nThank you for completing the interview for the %s position. "+
				"We were impressed with your responses and would like to invite you to the next stage. "+
				"Our team will contact you shortly to schedule it.\n\nBest regards,\nThe Hiring Team\n", name, position),
		}
	}
	return Message{
		Kind:    kind,
		Subject: fmt.Sprintf("Your application for the %s role", position),
		Body: fmt.Sprintf("Dear %s,\n\nThank you for taking the time to interview for the %s position. "+
			"After careful consideration we have decided not to move forward with your application at this time. "+
			"We wish you the best in your search.\n\nBest regards,\nThe Hiring Team\n", name, position),
	}
}

// MIME renders the message as a plain text email. Line breaks are dropped
// from header values.
func (m Message) MIME(from, to string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(from))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(to))
	fmt.Fprintf(&b, "Subject: %s\r\n", headerValue(m.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	return b.String()
}
