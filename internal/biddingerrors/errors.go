package biddingerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrItemNotFound = errors.New("item not found")
	ErrNoBids       = errors.New("no bids found for item")
	ErrUserNoBids   = errors.New("user has not placed any bids")
	ErrUserNotFound = errors.New("user not found")
	ErrPersistence  = errors.New("store unavailable")
)

// business logic errors
var (
	ErrInvalidBid     = errors.New("invalid bid")
	ErrBidTooLow      = errors.New("bid amount too low")
	ErrEmptyMessage   = errors.New("empty message content")
	ErrInvalidMessage = errors.New("invalid message")
)

// session errors
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrSessionClosed = errors.New("session closed")
	ErrSlowConsumer  = errors.New("session send buffer full")
)

// BidTooLowError is returned when a bid does not beat the current highest bid.
// It matches ErrBidTooLow under errors.Is.
type BidTooLowError struct {
	ItemID  string
	Amount  float64
	Highest float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("%s: bid %.2f on item %s, current highest is %.2f", ErrBidTooLow, e.Amount, e.ItemID, e.Highest)
}

func (e *BidTooLowError) Unwrap() error {
	return ErrBidTooLow
}
