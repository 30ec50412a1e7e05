package stt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "en-US", NormalizeLanguage(""))
	assert.Equal(t, "id-ID", NormalizeLanguage("id"))
	assert.Equal(t, "de-DE", NormalizeLanguage("de-DE"))
}

func TestJoinTranscript(t *testing.T) {
	assert.Equal(t, "I built APIs. Mostly in Go.", joinTranscript([]string{" I built APIs.", "", "Mostly in Go. "}))
}
