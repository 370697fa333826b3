package repository

import (
	"fmt"
	"sort"
	"sync"

	"live-auction/internal/biddingerrors"
	model "live-auction/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB defines the bid storage interface for the auction system
type AuctionDB interface {
	RecordBidForItem(bid model.Bid) error
	GetBidsByItem(itemID string) ([]model.Bid, error)
	GetWinningBid(itemID string) (model.Bid, error)
	GetItemIDsByUser(userID string) ([]string, error)
}

// MessageStore defines the append-only chat message storage
type MessageStore interface {
	AppendMessage(msg model.Message) error
	GetMessagesByRoom(room string) ([]model.Message, error)
	ListRooms() ([]string, error)
}

// Store is a backend holding both bids and messages
type Store interface {
	AuctionDB
	MessageStore
	Close() error
}

// MemoryRepo is a concurrency-safe in-memory implementation of Store
type MemoryRepo struct {
	mu        sync.RWMutex
	bids      map[string][]model.Bid     // key: itemID -> value: list of bids
	userItems map[string][]string        // key: userID -> value: list of itemIDs user has bid on
	messages  map[string][]model.Message // key: room -> value: messages in insertion order
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		bids:      make(map[string][]model.Bid),
		userItems: make(map[string][]string),
		messages:  make(map[string][]model.Message),
	}
}

// RecordBidForItem records a user's bid on an item
func (r *MemoryRepo) RecordBidForItem(bid model.Bid) error {
	if bid.ItemID == "" {
		return fmt.Errorf("record bid: %w", biddingerrors.ErrItemNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.bids[bid.ItemID] = append(r.bids[bid.ItemID], bid)

	for _, id := range r.userItems[bid.UserID] {
		if id == bid.ItemID {
			return nil
		}
	}
	r.userItems[bid.UserID] = append(r.userItems[bid.UserID], bid.ItemID)

	return nil
}

// GetBidsByItem returns all bids for an item
func (r *MemoryRepo) GetBidsByItem(itemID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[itemID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for item %s: %w", itemID, biddingerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), bids...), nil
}

// GetWinningBid returns the highest bid for an item
func (r *MemoryRepo) GetWinningBid(itemID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[itemID]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for item %s: %w", itemID, biddingerrors.ErrNoBids)
	}
	return winningOf(bids), nil
}

// GetItemIDsByUser returns the ids of all items a user has bid on
func (r *MemoryRepo) GetItemIDsByUser(userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemIDs, ok := r.userItems[userID]
	if !ok || len(itemIDs) == 0 {
		return nil, fmt.Errorf("get items for user %s: %w", userID, biddingerrors.ErrUserNoBids)
	}
	return append([]string(nil), itemIDs...), nil
}

// AppendMessage appends a chat message to its room
func (r *MemoryRepo) AppendMessage(msg model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages[msg.Room] = append(r.messages[msg.Room], msg)
	return nil
}

// GetMessagesByRoom returns the messages of a room in insertion order.
// A room without messages yields an empty slice.
func (r *MemoryRepo) GetMessagesByRoom(room string) ([]model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Message{}, r.messages[room]...), nil
}

// ListRooms returns every room that has at least one message, sorted by name
func (r *MemoryRepo) ListRooms() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]string, 0, len(r.messages))
	for room := range r.messages {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms, nil
}

// Close is a no-op for the in-memory store
func (r *MemoryRepo) Close() error {
	return nil
}

// winningOf picks the highest bid, the earliest one on ties.
func winningOf(bids []model.Bid) model.Bid {
	winning := bids[0]
	for _, b := range bids[1:] {
		if beats(b, winning) {
			winning = b
		}
	}
	return winning
}

// beats reports whether a outranks b: a higher amount, or the same amount placed earlier
func beats(a, b model.Bid) bool {
	return a.Amount > b.Amount || (a.Amount == b.Amount && a.CreatedAt.Before(b.CreatedAt))
}
