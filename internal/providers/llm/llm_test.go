package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	chunks []string
	err    error
}

func (f fakeProvider) StreamAnswer(context.Context, string) (<-chan string, <-chan error) {
	out := make(chan string, len(f.chunks))
	errs := make(chan error, 1)
	for _, c := range f.chunks {
		out <- c
	}
	close(out)
	if f.err != nil {
		errs <- f.err
	}
	close(errs)
	return out, errs
}

func (fakeProvider) Close() error { return nil }

func TestCollect(t *testing.T) {
	var seen []int
	got, err := Collect(context.Background(), fakeProvider{chunks: []string{"Covers ", "REST."}}, "p", func(seq int, _ string) {
		seen = append(seen, seq)
	})
	require.NoError(t, err)
	assert.Equal(t, "Covers REST.", got)
	assert.Equal(t, []int{1, 2}, seen)

	_, err = Collect(context.Background(), fakeProvider{err: errors.New("quota")}, "p", nil)
	assert.EqualError(t, err, "quota")
}

func TestAssessmentPrompt(t *testing.T) {
	p := AssessmentPrompt("Why Go?", []string{"Concurrency", "Tooling"}, "  ")
	assert.Contains(t, p, "Question: Why Go?")
	assert.Contains(t, p, "- Concurrency\n- Tooling\n")
	assert.Contains(t, p, "(no speech recognised)")
}

func TestCoveredPoints(t *testing.T) {
	got := CoveredPoints([]string{"Concurrency", "Tooling", ""}, "Goroutines make concurrency easy")
	assert.Equal(t, []string{"Concurrency"}, got)
}
