package storage

import (
	"context"
	"io"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

// FeedbackObjectName is where a session's feedback report is archived.
func FeedbackObjectName(sessionID string) string {
	return "feedback/" + sessionID + ".json"
}
