package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/yoockh/yoointerview/internal/pubsub"
	"github.com/yoockh/yoointerview/internal/services"
	"github.com/yoockh/yoointerview/internal/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second

	// An audio chunk is at most 2 MiB before base64 and JSON framing.
	wsReadLimit = 4 << 20
)

// Subscriber opens a Redis subscription. Implemented by pubsub.Bus.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

type WSHandler struct {
	interviews services.InterviewService
	audio      services.AudioService
	bus        Subscriber
	upgrader   websocket.Upgrader

	pingPeriod time.Duration
	pongWait   time.Duration
	readLimit  int64
}

func NewWSHandler(interviews services.InterviewService, audio services.AudioService, bus Subscriber, allowedOrigins []string) *WSHandler {
	allow := map[string]struct{}{}
	for _, o := range allowedOrigins {
		allow[o] = struct{}{}
	}
	return &WSHandler{
		interviews: interviews,
		audio:      audio,
		bus:        bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allow) == 0 {
					return true
				}
				_, ok := allow[r.Header.Get("Origin")]
				return ok
			},
		},
		pingPeriod: wsPingPeriod,
		pongWait:   wsPongWait,
		readLimit:  wsReadLimit,
	}
}

type wsClientMsg struct {
	Type          string `json:"type"`
	QuestionIndex int    `json:"question_index"`
	ChunkIndex    int64  `json:"chunk_index"`
	AudioBase64   string `json:"audio_base64"`
}

type wsServerMsg struct {
	Type    string     `json:"type"`
	Action  string     `json:"action,omitempty"`
	Code    utils.Code `json:"code,omitempty"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (w *wsConn) writeJSON(m wsServerMsg) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return w.writeText(b)
}

func (w *wsConn) writeErr(err error) {
	_ = w.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeOf(err), Message: utils.PublicMessage(err)})
}

// Watch streams a session's status and transcription events to its recruiter.
func (h *WSHandler) Watch(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	sess, err := h.interviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !canAccess(p, sess) {
		writeError(c, utils.E(utils.CodeForbidden, "WSHandler.Watch", "forbidden", nil))
		return
	}

	h.serve(c, sess.SessionID, []string{pubsub.StatusChannel(sess.SessionID), pubsub.ResponseChannel(sess.SessionID)},
		func(ctx context.Context, wc *wsConn, msg wsClientMsg) bool {
			switch msg.Type {
			case "end_interview":
				out, err := h.interviews.End(ctx, sess.SessionID)
				if err != nil {
					wc.writeErr(err)
					return true
				}
				_ = wc.writeJSON(wsServerMsg{Type: "ack", Action: msg.Type, Data: out})
			default:
				wc.writeErr(utils.E(utils.CodeInvalidArgument, "WSHandler.Watch", "unknown message type", nil))
			}
			return true
		})
}

// Candidate is the candidate's live channel: it receives narration and
// status events and sends recording actions and audio chunks.
func (h *WSHandler) Candidate(c *gin.Context) {
	sessionID, code := c.Param("id"), joinCode(c)
	if _, err := h.interviews.Authorize(c.Request.Context(), sessionID, code); err != nil {
		writeError(c, err)
		return
	}

	h.serve(c, sessionID, []string{pubsub.StatusChannel(sessionID), pubsub.NarrationChannel(sessionID)},
		func(ctx context.Context, wc *wsConn, msg wsClientMsg) bool {
			var (
				data any
				err  error
			)
			switch msg.Type {
			case "audio_chunk":
				if h.audio == nil {
					err = utils.E(utils.CodeUnavailable, "WSHandler.Candidate", "audio upload is not available", nil)
					break
				}
				data, err = h.audio.Ingest(ctx, sessionID, msg.QuestionIndex, msg.ChunkIndex, msg.AudioBase64)
			case "join":
				data, err = h.interviews.Join(ctx, sessionID, code)
			case "start_recording":
				data, err = h.interviews.StartRecording(ctx, sessionID, code)
			case "stop_recording":
				data, err = h.interviews.StopRecording(ctx, sessionID, code)
			case "skip":
				data, err = h.interviews.Skip(ctx, sessionID, code)
			default:
				err = utils.E(utils.CodeInvalidArgument, "WSHandler.Candidate", "unknown message type", nil)
			}
			if err != nil {
				wc.writeErr(err)
				return true
			}
			if msg.Type == "audio_chunk" {
				data = gin.H{"question_index": msg.QuestionIndex, "chunk_index": msg.ChunkIndex}
			}
			_ = wc.writeJSON(wsServerMsg{Type: "ack", Action: msg.Type, Data: data})
			return true
		})
}

// serve upgrades the connection, forwards the given channels to the client
// and hands every client message to onMsg until it returns false.
func (h *WSHandler) serve(c *gin.Context, sessionID string, channels []string, onMsg func(context.Context, *wsConn, wsClientMsg) bool) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.bus.Subscribe(ctx, channels...)
	defer sub.Close()

	// reader: client -> services
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.SetReadLimit(h.readLimit)
		_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				wc.writeErr(utils.E(utils.CodeInvalidArgument, "WSHandler", "invalid json", err))
				continue
			}
			if !onMsg(ctx, wc, msg) {
				return
			}
		}
	}()

	_ = wc.writeJSON(wsServerMsg{Type: "connected", Data: gin.H{"session_id": sessionID}})

	// writer: Redis Pub/Sub -> client, plus keepalive pings
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	msgs := sub.Channel()
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if werr := wc.ping(); werr != nil {
				return
			}
		case m, ok := <-msgs:
			if !ok {
				return
			}
			// forward as-is (payload is JSON)
			if werr := wc.writeText([]byte(m.Payload)); werr != nil {
				return
			}
		}
	}
}
