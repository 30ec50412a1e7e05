package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackObjectName(t *testing.T) {
	assert.Equal(t, "feedback/abc.json", FeedbackObjectName("abc"))
}
