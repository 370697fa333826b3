package helpers

import (
	model "live-auction/internal/models"
	"live-auction/utils"
)

// Request/Response DTOs
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	ItemID    string  `json:"item_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type AuctionResponse struct {
	ItemID        string  `json:"item_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	StartingPrice float64 `json:"starting_price"`
	Highest       float64 `json:"highest"`
}

type MessageResponse struct {
	MessageID string `json:"message_id"`
	Room      string `json:"room"`
	Sender    string `json:"sender"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	TS        string `json:"ts"`
}

type RoomResponse struct {
	Room      string `json:"room"`
	Members   int    `json:"members"`
	Persisted bool   `json:"persisted"`
}

func ToBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ItemID:    bid.ItemID,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		CreatedAt: utils.FormatTimestamp(bid.CreatedAt),
	}
}
