package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialCandidate serves the candidate socket against a Redis address that
// never answers, so only the keepalive and client messages are exercised.
func dialCandidate(t *testing.T, tune func(*WSHandler)) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	interviews := newFakeInterviews()
	interviews.add("s-1", "rec-1", "CODE2345")

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewWSHandler(interviews, nil, rdb, nil)
	if tune != nil {
		tune(h)
	}
	r := gin.New()
	r.GET("/ws/candidate/:id", h.Candidate)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/candidate/s-1?code=CODE2345"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var hello wsServerMsg
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "connected", hello.Type)
	return conn
}

func TestWSHandler_PingsKeepIdleConnectionOpen(t *testing.T) {
	conn := dialCandidate(t, func(h *WSHandler) {
		h.pingPeriod = 50 * time.Millisecond
		h.pongWait = 200 * time.Millisecond
	})

	pings := make(chan struct{}, 64)
	conn.SetPingHandler(func(data string) error {
		select {
		case pings <- struct{}{}:
		default:
		}
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	// Control frames are handled while the client reads.
	replies := make(chan wsServerMsg, 4)
	go func() {
		for {
			var m wsServerMsg
			if err := conn.ReadJSON(&m); err != nil {
				close(replies)
				return
			}
			replies <- m
		}
	}()

	select {
	case <-pings:
	case <-time.After(time.Second):
		t.Fatal("server sent no ping")
	}

	// Stay silent well past pongWait; pongs alone must keep the socket alive.
	time.Sleep(600 * time.Millisecond)

	msg, err := json.Marshal(wsClientMsg{Type: "join"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, msg))

	select {
	case m, ok := <-replies:
		require.True(t, ok, "connection closed while idle")
		assert.Equal(t, "ack", m.Type)
		assert.Equal(t, "join", m.Action)
	case <-time.After(time.Second):
		t.Fatal("no reply after idle period")
	}
}

func TestWSHandler_OversizedMessageClosesConnection(t *testing.T) {
	conn := dialCandidate(t, func(h *WSHandler) { h.readLimit = 1024 })

	big := `{"type":"audio_chunk","audio_base64":"` + strings.Repeat("A", 4096) + `"}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(big)))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "connection stayed open after an oversized message")
	}
}
