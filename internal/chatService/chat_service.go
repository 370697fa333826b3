package chat

import (
	"fmt"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/keylock"
	"live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/utils"
)

// ChatService is the message log: append-only chat history per room
type ChatService struct {
	store repository.MessageStore

	// roomLocks orders append+notify per room
	roomLocks keylock.Table
}

// NewChatService creates a new ChatService instance
func NewChatService(store repository.MessageStore) *ChatService {
	return &ChatService{store: store}
}

// Append stores a message posted by senderID into room
func (s *ChatService) Append(room, senderID, content string) (models.Message, error) {
	return s.AppendAndNotify(room, senderID, content, nil)
}

// AppendAndNotify stores a message and calls notify with it before the room
// is unlocked. Empty content is rejected with ErrEmptyMessage and nothing is
// stored; notify never sees a message that failed to persist.
func (s *ChatService) AppendAndNotify(room, senderID, content string, notify func(models.Message)) (models.Message, error) {
	if room == "" || senderID == "" {
		return models.Message{}, fmt.Errorf("chat: missing room or sender: %w", biddingerrors.ErrInvalidMessage)
	}
	if content == "" {
		return models.Message{}, fmt.Errorf("chat: room %s: %w", room, biddingerrors.ErrEmptyMessage)
	}

	unlock := s.roomLocks.Lock(room)
	defer unlock()

	msg := models.Message{
		MessageID: utils.GenerateID(),
		Room:      room,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AppendMessage(msg); err != nil {
		return models.Message{}, fmt.Errorf("chat: failed to append message to room %s: %w", room, err)
	}

	if notify != nil {
		notify(msg)
	}
	return msg, nil
}

// History returns the messages of room in the order they were appended
func (s *ChatService) History(room string) ([]models.Message, error) {
	msgs, err := s.store.GetMessagesByRoom(room)
	if err != nil {
		return nil, fmt.Errorf("chat: failed to load history for room %s: %w", room, err)
	}
	return msgs, nil
}

// SnapshotHistory calls fn with the history of room while appends to the
// room are held back, so a subscriber registered inside fn neither misses
// nor duplicates a message.
func (s *ChatService) SnapshotHistory(room string, fn func([]models.Message)) error {
	unlock := s.roomLocks.Lock(room)
	defer unlock()

	msgs, err := s.History(room)
	if err != nil {
		return err
	}
	fn(msgs)
	return nil
}

// Rooms returns every room that has persisted messages
func (s *ChatService) Rooms() ([]string, error) {
	rooms, err := s.store.ListRooms()
	if err != nil {
		return nil, fmt.Errorf("chat: failed to list rooms: %w", err)
	}
	return rooms, nil
}
