// Package session drives one streaming connection through authentication,
// room join, the join snapshot and the inbound event loop, for both the
// auction and the chat channel.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/config"
	"live-auction/internal/directory"
	"live-auction/internal/metrics"
	"live-auction/internal/models"
	"live-auction/internal/rooms"
	"live-auction/utils"

	"github.com/gorilla/websocket"
)

// Close codes sent when a connection is refused after the upgrade
const (
	CloseUnauthorized = 4001
	CloseItemNotFound = 4004
)

// Verifier resolves a bearer token to an identity
type Verifier interface {
	Verify(token string) (models.Identity, bool)
}

// Ledger is the part of the bid ledger a session needs
type Ledger interface {
	SnapshotHighest(itemID string, fn func(highest float64)) error
	PlaceBidAndNotify(itemID, userID string, amount float64, notify func(models.Bid)) (models.Bid, error)
}

// MessageLog is the part of the chat log a session needs
type MessageLog interface {
	SnapshotHistory(room string, fn func([]models.Message)) error
	AppendAndNotify(room, senderID, content string, notify func(models.Message)) (models.Message, error)
}

// Deps are the collaborators shared by every session
type Deps struct {
	Verifier Verifier
	Ledger   Ledger
	Messages MessageLog
	Catalog  directory.Catalog
	Users    directory.UserDirectory

	// AuctionRooms and ChatRooms are kept apart so a chat room can never
	// shadow an auction room of the same name.
	AuctionRooms *rooms.Registry
	ChatRooms    *rooms.Registry

	Metrics *metrics.Metrics
}

// Options tune the transport of each session
type Options struct {
	MaxMessageSize int64
	SendBuffer     int
	RateLimit      config.RateLimitConfig
	// CheckOrigin decides whether an upgrade request may proceed. Nil
	// allows every origin.
	CheckOrigin func(r *http.Request) bool
}

// OptionsFromConfig derives session options from the server config
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		MaxMessageSize: cfg.MaxMessageSize,
		SendBuffer:     cfg.SendBuffer,
		RateLimit:      cfg.RateLimit,
		CheckOrigin:    NewOriginPolicy(cfg.AllowedOrigins),
	}
}

// Handler upgrades HTTP requests into sessions
type Handler struct {
	deps     Deps
	opts     Options
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*Session]struct{}
	closing  bool
}

// NewHandler creates a Handler. Zero options fall back to the config
// defaults.
func NewHandler(deps Deps, opts Options) *Handler {
	def := config.Default()
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = def.MaxMessageSize
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = def.SendBuffer
	}
	if opts.RateLimit.PerSecond <= 0 || opts.RateLimit.Burst <= 0 {
		opts.RateLimit = def.RateLimit
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(nil)
	}

	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Handler{
		deps: deps,
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		sessions: make(map[*Session]struct{}),
	}
}

// ServeAuction runs an auction session for itemID until it disconnects
func (h *Handler) ServeAuction(w http.ResponseWriter, r *http.Request, itemID string) {
	conn, ok := h.upgrade(w, r)
	if !ok {
		return
	}

	identity, ok := h.deps.Verifier.Verify(r.URL.Query().Get("token"))
	if !ok || !identity.EmailVerified {
		h.deps.Metrics.AuthFailures.Inc()
		reject(conn, CloseUnauthorized, "unauthorized", map[string]any{
			"channel":        metrics.KindAuction,
			"item_id":        itemID,
			"user_id":        identity.UserID,
			"email_verified": identity.EmailVerified,
		})
		return
	}

	if _, err := h.deps.Catalog.FindItem(itemID); err != nil {
		reject(conn, CloseItemNotFound, "item not found", map[string]any{
			"item_id": itemID,
			"user_id": identity.UserID,
			"error":   err.Error(),
		})
		return
	}

	s := newSession(conn, identity, models.AuctionRoom(itemID), metrics.KindAuction, h.opts)
	err := h.deps.Ledger.SnapshotHighest(itemID, func(highest float64) {
		s.preamble = [][]byte{encode(initEvent{Type: "init", Highest: highest})}
		h.join(h.deps.AuctionRooms, s)
	})
	if err != nil {
		utils.Error("auction snapshot failed", s.logFields(map[string]any{"error": err.Error()}))
		reject(conn, websocket.CloseInternalServerErr, "snapshot unavailable", s.fields())
		return
	}

	h.run(h.deps.AuctionRooms, s, func(raw []byte) error {
		return h.handleBid(s, itemID, raw)
	})
}

// ServeChat runs a chat session in room until it disconnects
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request, room string) {
	conn, ok := h.upgrade(w, r)
	if !ok {
		return
	}

	identity, ok := h.deps.Verifier.Verify(r.URL.Query().Get("token"))
	if !ok {
		h.deps.Metrics.AuthFailures.Inc()
		reject(conn, CloseUnauthorized, "unauthorized", map[string]any{
			"channel": metrics.KindChat,
			"room":    room,
		})
		return
	}

	s := newSession(conn, identity, room, metrics.KindChat, h.opts)
	err := h.deps.Messages.SnapshotHistory(room, func(history []models.Message) {
		s.preamble = make([][]byte, 0, len(history))
		for _, m := range history {
			s.preamble = append(s.preamble, encode(chatEvent{
				Sender:  h.username(m.SenderID),
				Content: m.Content,
				TS:      utils.FormatTimestamp(m.CreatedAt),
			}))
		}
		h.join(h.deps.ChatRooms, s)
	})
	if err != nil {
		utils.Error("chat history snapshot failed", s.logFields(map[string]any{"error": err.Error()}))
		reject(conn, websocket.CloseInternalServerErr, "history unavailable", s.fields())
		return
	}

	h.run(h.deps.ChatRooms, s, func(raw []byte) error {
		return h.handleChat(s, raw)
	})
}

func (h *Handler) upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, bool) {
	h.mu.Lock()
	closing := h.closing
	h.mu.Unlock()
	if closing {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return nil, false
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		utils.Warn("websocket upgrade failed", map[string]any{
			"path":   r.URL.Path,
			"origin": r.Header.Get("Origin"),
			"error":  err.Error(),
		})
		return nil, false
	}
	return conn, true
}

// join runs inside the snapshot callback; registration and snapshot are
// therefore atomic with respect to new events in the room.
func (h *Handler) join(reg *rooms.Registry, s *Session) {
	reg.Join(s.room, s)

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	h.deps.Metrics.ActiveSessions.WithLabelValues(s.kind).Inc()
	utils.Info("session joined", s.logFields(map[string]any{"username": s.identity.Username}))
}

// run is the Active state. It returns once the session is closed, after
// leaving the room exactly once.
func (h *Handler) run(reg *rooms.Registry, s *Session, handle func([]byte) error) {
	go s.writePump()

	h.mu.Lock()
	closing := h.closing
	h.mu.Unlock()
	if closing {
		s.close(websocket.CloseGoingAway, "server shutting down")
	}

	s.readLoop(handle)
	s.wait()

	reg.Leave(s.room, s)
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
	h.deps.Metrics.ActiveSessions.WithLabelValues(s.kind).Dec()
	utils.Info("session closed", s.fields())
}

func (h *Handler) handleBid(s *Session, itemID string, raw []byte) error {
	amount, err := decodeBid(raw)
	if err != nil {
		return err
	}

	_, err = h.deps.Ledger.PlaceBidAndNotify(itemID, s.identity.UserID, amount, func(bid models.Bid) {
		h.deps.AuctionRooms.Broadcast(s.room, encode(newBidEvent{
			Type:      "new_bid",
			User:      s.identity.Username,
			Amount:    bid.Amount,
			Timestamp: utils.FormatTimestamp(bid.CreatedAt),
		}))
	})

	var tooLow *biddingerrors.BidTooLowError
	switch {
	case err == nil:
		h.deps.Metrics.BidsAccepted.Inc()
		utils.Info("bid accepted", s.logFields(map[string]any{"amount": amount}))
	case errors.As(err, &tooLow):
		h.deps.Metrics.BidsRejected.WithLabelValues("too_low").Inc()
		highest := tooLow.Highest
		h.reply(s, errorEvent{Type: "error", Msg: "Bid too low", Highest: &highest})
		utils.Debug("bid rejected", s.logFields(map[string]any{"amount": amount, "highest": highest}))
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		h.deps.Metrics.BidsRejected.WithLabelValues("invalid").Inc()
		h.reply(s, errorEvent{Type: "error", Msg: "Invalid bid"})
		utils.Warn("invalid bid", s.logFields(map[string]any{"error": err.Error()}))
	default:
		h.deps.Metrics.BidsRejected.WithLabelValues("error").Inc()
		h.reply(s, errorEvent{Type: "error", Msg: "Bid could not be placed"})
		utils.Error("failed to place bid", s.logFields(map[string]any{"amount": amount, "error": err.Error()}))
	}
	return nil
}

func (h *Handler) handleChat(s *Session, raw []byte) error {
	content, err := decodeChat(raw)
	if err != nil {
		return err
	}
	if content == "" {
		return nil
	}

	_, err = h.deps.Messages.AppendAndNotify(s.room, s.identity.UserID, content, func(m models.Message) {
		h.deps.ChatRooms.Broadcast(s.room, encode(chatEvent{
			Sender:  s.identity.Username,
			Content: m.Content,
			TS:      utils.FormatTimestamp(m.CreatedAt),
		}))
	})
	if err != nil {
		h.reply(s, errorEvent{Type: "error", Msg: "Message could not be saved"})
		utils.Error("failed to append chat message", s.logFields(map[string]any{"error": err.Error()}))
		return nil
	}
	h.deps.Metrics.MessagesAppended.Inc()
	return nil
}

// reply sends a private event to s only
func (h *Handler) reply(s *Session, event errorEvent) {
	if err := s.Deliver(encode(event)); err != nil {
		utils.Warn("private reply dropped", s.logFields(map[string]any{"error": err.Error()}))
	}
}

func (h *Handler) username(userID string) string {
	u, err := h.deps.Users.FindByID(userID)
	if err != nil {
		return userID
	}
	return u.Username
}

// Shutdown refuses new sessions and closes every live one with 1001, then
// waits until they have left their rooms or ctx is done.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	live := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		live = append(live, s)
	}
	h.mu.Unlock()

	for _, s := range live {
		s.close(websocket.CloseGoingAway, "server shutting down")
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for h.Active() > 0 {
		select {
		case <-ctx.Done():
			utils.Warn("sessions still open at shutdown deadline", map[string]any{"remaining": h.Active()})
			return ctx.Err()
		case <-ticker.C:
		}
	}
	utils.Info("sessions drained", map[string]any{"closed": len(live)})
	return nil
}

// Active returns the number of joined sessions
func (h *Handler) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// reject closes a connection that never joined a room
func reject(conn *websocket.Conn, code int, reason string, fields map[string]any) {
	fields["close_code"] = code
	utils.Warn("session rejected", fields)

	msg := websocket.FormatCloseMessage(code, reason)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		utils.Debug("close frame not sent", map[string]any{"error": err.Error()})
	}
	_ = conn.Close()
}
