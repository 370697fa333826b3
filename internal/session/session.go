package session

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/models"
	"live-auction/utils"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Session is one authenticated streaming connection bound to a single room.
// The handler goroutine runs the read loop; writePump owns every write to
// the connection.
type Session struct {
	id       string
	identity models.Identity
	room     string
	kind     string

	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	// preamble is written before anything queued on send; it carries the
	// join snapshot.
	preamble [][]byte

	closeOnce  sync.Once
	closeCode  int
	closeText  string
	done       chan struct{}
	pumpExited chan struct{}
}

func newSession(conn *websocket.Conn, identity models.Identity, room, kind string, opts Options) *Session {
	conn.SetReadLimit(opts.MaxMessageSize)
	return &Session{
		id:         utils.GenerateID(),
		identity:   identity,
		room:       room,
		kind:       kind,
		conn:       conn,
		send:       make(chan []byte, opts.SendBuffer),
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit.PerSecond), opts.RateLimit.Burst),
		done:       make(chan struct{}),
		pumpExited: make(chan struct{}),
	}
}

// ID implements rooms.Member
func (s *Session) ID() string { return s.id }

// Deliver implements rooms.Member. It never blocks: a session whose queue
// is full is closed and reported as a slow consumer.
func (s *Session) Deliver(payload []byte) error {
	select {
	case <-s.done:
		return fmt.Errorf("session %s: %w", s.id, biddingerrors.ErrSessionClosed)
	default:
	}

	select {
	case s.send <- payload:
		return nil
	default:
		s.close(websocket.ClosePolicyViolation, "send queue full")
		return fmt.Errorf("session %s: %w", s.id, biddingerrors.ErrSlowConsumer)
	}
}

// close asks the write pump to send a close frame with code and drop the
// connection. Only the first call has any effect.
func (s *Session) close(code int, text string) {
	s.closeOnce.Do(func() {
		s.closeCode = code
		s.closeText = text
		close(s.done)
	})
}

func (s *Session) fields() map[string]any {
	return map[string]any{
		"session_id": s.id,
		"user_id":    s.identity.UserID,
		"room":       s.room,
	}
}

func (s *Session) logFields(extra map[string]any) map[string]any {
	f := s.fields()
	for k, v := range extra {
		f[k] = v
	}
	return f
}

// readLoop feeds inbound frames to handle one at a time until the
// connection ends. A non-nil error from handle is a protocol violation and
// closes the session with 1003.
func (s *Session) readLoop(handle func(raw []byte) error) {
	defer s.close(websocket.CloseNormalClosure, "")

	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		utils.Warn("failed to set read deadline", s.logFields(map[string]any{"error": err.Error()}))
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.logReadError(err)
			return
		}

		if !s.limiter.Allow() {
			utils.Warn("rate limit exceeded, discarding message", s.fields())
			continue
		}

		if err := handle(raw); err != nil {
			utils.Warn("protocol error, closing session", s.logFields(map[string]any{"error": err.Error()}))
			s.close(websocket.CloseUnsupportedData, "malformed message")
			return
		}
	}
}

func (s *Session) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		utils.Warn("message exceeded maximum size", s.fields())
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		utils.Debug("client disconnected", s.fields())
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		utils.Debug("connection closed", s.fields())
	default:
		utils.Info("websocket read ended", s.logFields(map[string]any{"error": err.Error()}))
	}
}

// writePump writes the preamble, then queued payloads and keepalive pings,
// until the session is closed. It always closes the connection on exit.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close(websocket.CloseNormalClosure, "")
		_ = s.conn.Close()
		close(s.pumpExited)
	}()

	for _, frame := range s.preamble {
		if !s.write(frame) {
			return
		}
	}
	s.preamble = nil

	for {
		select {
		case payload := <-s.send:
			if !s.write(payload) {
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				utils.Debug("ping failed", s.logFields(map[string]any{"error": err.Error()}))
				return
			}
		case <-s.done:
			s.flush()
			s.writeClose()
			return
		}
	}
}

func (s *Session) write(payload []byte) bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return false
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		utils.Debug("write failed", s.logFields(map[string]any{"error": err.Error()}))
		return false
	}
	return true
}

// flush writes whatever is already queued so a private error sent just
// before closing still reaches the client.
func (s *Session) flush() {
	if s.closeCode == websocket.ClosePolicyViolation {
		return
	}
	for {
		select {
		case payload := <-s.send:
			if !s.write(payload) {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) writeClose() {
	msg := websocket.FormatCloseMessage(s.closeCode, s.closeText)
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		utils.Debug("close frame not sent", s.logFields(map[string]any{"error": err.Error()}))
	}
}

// wait blocks until the write pump has released the connection
func (s *Session) wait() {
	<-s.pumpExited
}
