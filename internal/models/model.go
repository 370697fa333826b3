package models

import (
	"fmt"
	"time"
)

// User represents a marketplace account as held by the user directory
type User struct {
	UserID        string `json:"user_id" yaml:"user_id"`
	Username      string `json:"username" yaml:"username"`
	Email         string `json:"email" yaml:"email"`
	EmailVerified bool   `json:"email_verified" yaml:"email_verified"`
	IsAdmin       bool   `json:"is_admin" yaml:"is_admin"`
}

// Identity is the authenticated principal behind a streaming session
type Identity struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	EmailVerified bool   `json:"email_verified"`
}

// IdentityOf returns the identity view of a directory user.
func IdentityOf(u User) Identity {
	return Identity{UserID: u.UserID, Username: u.Username, EmailVerified: u.EmailVerified}
}

// Item represents an auction item
type Item struct {
	ItemID        string  `json:"item_id" yaml:"item_id"`
	Title         string  `json:"title" yaml:"title"`
	Description   string  `json:"description" yaml:"description"`
	StartingPrice float64 `json:"starting_price" yaml:"starting_price"`
	AuctionLive   bool    `json:"auction_live" yaml:"auction_live"`
}

// Bid represents a user's bid on an item
type Bid struct {
	BidID     string    `json:"bid_id"`
	ItemID    string    `json:"item_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a chat line posted into a room
type Message struct {
	MessageID string    `json:"message_id"`
	Room      string    `json:"room"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AuctionRoomPrefix namespaces auction rooms away from free-form chat rooms.
const AuctionRoomPrefix = "auction_"

// AuctionRoom returns the room name bidders on itemID share.
func AuctionRoom(itemID string) string {
	return fmt.Sprintf("%s%s", AuctionRoomPrefix, itemID)
}
