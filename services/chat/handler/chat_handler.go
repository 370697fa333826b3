package handler

import (
	"net/http"
	"sort"

	"live-auction/internal/directory"
	model "live-auction/internal/models"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=chat_handler.go -destination=mock_chat_handler.go -package=handler

type ChatServiceInterface interface {
	History(room string) ([]model.Message, error)
	Rooms() ([]string, error)
}

// LiveRooms reports the rooms that currently have connected members
type LiveRooms interface {
	Rooms() map[string]int
}

// ChatStreamer runs a chat session on an upgraded connection
type ChatStreamer interface {
	ServeChat(w http.ResponseWriter, r *http.Request, room string)
}

type ChatHandler struct {
	service  ChatServiceInterface
	live     LiveRooms
	users    directory.UserDirectory
	streamer ChatStreamer
}

func NewChatHandler(service ChatServiceInterface, live LiveRooms, users directory.UserDirectory, streamer ChatStreamer) *ChatHandler {
	return &ChatHandler{service: service, live: live, users: users, streamer: streamer}
}

// ChatSocketHandler handles GET /ws/chat/:room
func (h *ChatHandler) ChatSocketHandler(c *gin.Context) {
	h.streamer.ServeChat(c.Writer, c.Request, c.Param("room"))
}

// ListRoomsHandler handles GET /rooms
func (h *ChatHandler) ListRoomsHandler(c *gin.Context) {
	persisted, err := h.service.Rooms()
	if err != nil {
		helpers.RespondError(c, "ListRoomsHandler", err, nil)
		return
	}

	byName := make(map[string]*helpers.RoomResponse, len(persisted))
	for _, name := range persisted {
		byName[name] = &helpers.RoomResponse{Room: name, Persisted: true}
	}
	for name, members := range h.live.Rooms() {
		r, ok := byName[name]
		if !ok {
			r = &helpers.RoomResponse{Room: name}
			byName[name] = r
		}
		r.Members = members
	}

	resp := make([]helpers.RoomResponse, 0, len(byName))
	for _, r := range byName {
		resp = append(resp, *r)
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].Room < resp[j].Room })

	utils.JSONResponse(c, http.StatusOK, resp, "rooms retrieved successfully")
	helpers.LogSuccess("ListRoomsHandler", "rooms retrieved successfully", map[string]any{"count": len(resp)})
}

// GetMessagesHandler handles GET /rooms/:room/messages?limit=N
func (h *ChatHandler) GetMessagesHandler(c *gin.Context) {
	room := c.Param("room")

	var query helpers.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		helpers.HandleBindError(c, "GetMessagesHandler", err)
		return
	}

	msgs, err := h.service.History(room)
	if err != nil {
		helpers.RespondError(c, "GetMessagesHandler", err, map[string]any{"room": room})
		return
	}
	if query.Limit > 0 && len(msgs) > query.Limit {
		msgs = msgs[len(msgs)-query.Limit:]
	}

	names := make(map[string]string)
	resp := make([]helpers.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		name, ok := names[m.SenderID]
		if !ok {
			name = h.senderName(m.SenderID)
			names[m.SenderID] = name
		}
		resp = append(resp, helpers.MessageResponse{
			MessageID: m.MessageID,
			Room:      m.Room,
			Sender:    name,
			SenderID:  m.SenderID,
			Content:   m.Content,
			TS:        utils.FormatTimestamp(m.CreatedAt),
		})
	}

	utils.JSONResponse(c, http.StatusOK, resp, "messages retrieved successfully")
	helpers.LogSuccess("GetMessagesHandler", "messages retrieved successfully", map[string]any{
		"room":  room,
		"count": len(resp),
	})
}

// senderName falls back to the raw id for users that left the directory
func (h *ChatHandler) senderName(userID string) string {
	u, err := h.users.FindByID(userID)
	if err != nil || u.Username == "" {
		return userID
	}
	return u.Username
}
