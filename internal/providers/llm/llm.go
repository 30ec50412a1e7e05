package llm

import (
	"context"
	"strings"
)

type Provider interface {
	// StreamAnswer returns a stream of text chunks (incremental).
	StreamAnswer(ctx context.Context, prompt string) (chunks <-chan string, errs <-chan error)
	Close() error
}

// Collect drains a stream into one string, calling onChunk for each piece.
func Collect(ctx context.Context, p Provider, prompt string, onChunk func(seq int, chunk string)) (string, error) {
	chunks, errs := p.StreamAnswer(ctx, prompt)

	var full strings.Builder
	seq := 0
	for chunk := range chunks {
		seq++
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(seq, chunk)
		}
	}
	if err, ok := <-errs; ok && err != nil {
		return "", err
	}
	return full.String(), nil
}
