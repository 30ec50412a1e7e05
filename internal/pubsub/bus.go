// Package pubsub carries interview traffic over Redis: session events and
// narration on pub/sub channels, answer audio jobs on a stream.
package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func StatusChannel(sessionID string) string    { return "session:" + sessionID + ":status" }
func ResponseChannel(sessionID string) string  { return "session:" + sessionID + ":response" }
func NarrationChannel(sessionID string) string { return "session:" + sessionID + ":narration" }

// SessionChannels lists every channel a live client of a session listens on.
func SessionChannels(sessionID string) []string {
	return []string{StatusChannel(sessionID), ResponseChannel(sessionID), NarrationChannel(sessionID)}
}

type Narration struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// Publisher is the subset of Bus used by services.
type Publisher interface {
	PublishJSON(ctx context.Context, channel string, v any) error
}

type Bus struct {
	rdb *redis.Client
	log *logrus.Entry
}

func NewBus(rdb *redis.Client, log *logrus.Entry) *Bus {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bus{rdb: rdb, log: log}
}

func (b *Bus) PublishJSON(ctx context.Context, channel string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channel, payload).Err()
}

// Narrate asks the candidate's browser to speak text.
func (b *Bus) Narrate(ctx context.Context, sessionID, text string) error {
	return b.PublishJSON(ctx, NarrationChannel(sessionID), Narration{
		Type:      "narration",
		SessionID: sessionID,
		Text:      text,
	})
}

func (b *Bus) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return b.rdb.Subscribe(ctx, channels...)
}

// Enqueue appends a job to a stream and returns its id.
func (b *Bus) Enqueue(ctx context.Context, stream string, values map[string]any) (string, error) {
	id, err := b.rdb.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: values}).Result()
	if err != nil {
		b.log.WithError(err).WithField("stream", stream).Error("enqueue failed")
		return "", err
	}
	return id, nil
}
