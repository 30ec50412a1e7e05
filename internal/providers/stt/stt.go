package stt

import "context"

type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}

// NormalizeLanguage maps short language codes to BCP-47 tags.
func NormalizeLanguage(v string) string {
	switch v {
	case "", "en", "en-US":
		return "en-US"
	case "id", "id-ID":
		return "id-ID"
	default:
		return v
	}
}
