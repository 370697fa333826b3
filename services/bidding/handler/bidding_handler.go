package handler

import (
	"errors"
	"net/http"

	"live-auction/internal/biddingerrors"
	model "live-auction/internal/models"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_handler.go -package=handler

type BiddingServiceInterface interface {
	Highest(itemID string) (float64, error)
	ListLiveAuctions() []model.Item
	GetBidsForItem(itemID string) ([]model.Bid, error)
	GetWinningBid(itemID string) (model.Bid, error)
	GetItemsByUser(userID string) ([]model.Item, error)
}

// AuctionStreamer runs a live auction session on an upgraded connection
type AuctionStreamer interface {
	ServeAuction(w http.ResponseWriter, r *http.Request, itemID string)
}

type BiddingHandler struct {
	service  BiddingServiceInterface
	streamer AuctionStreamer
}

func NewBiddingHandler(service BiddingServiceInterface, streamer AuctionStreamer) *BiddingHandler {
	return &BiddingHandler{service: service, streamer: streamer}
}

// AuctionSocketHandler handles GET /ws/auction/:item_id
func (h *BiddingHandler) AuctionSocketHandler(c *gin.Context) {
	h.streamer.ServeAuction(c.Writer, c.Request, c.Param("item_id"))
}

// ListAuctionsHandler handles GET /auctions
func (h *BiddingHandler) ListAuctionsHandler(c *gin.Context) {
	items := h.service.ListLiveAuctions()

	resp := make([]helpers.AuctionResponse, 0, len(items))
	for _, item := range items {
		highest, err := h.service.Highest(item.ItemID)
		if err != nil {
			helpers.RespondError(c, "ListAuctionsHandler", err, map[string]any{"item_id": item.ItemID})
			return
		}
		resp = append(resp, helpers.AuctionResponse{
			ItemID:        item.ItemID,
			Title:         item.Title,
			Description:   item.Description,
			StartingPrice: item.StartingPrice,
			Highest:       highest,
		})
	}

	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{"count": len(resp)})
}

// GetBidsByItemHandler handles GET /items/:item_id/bids
func (h *BiddingHandler) GetBidsByItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	bids, err := h.service.GetBidsForItem(itemID)
	if err != nil && !errors.Is(err, biddingerrors.ErrNoBids) {
		helpers.RespondError(c, "GetBidsByItemHandler", err, map[string]any{"item_id": itemID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, helpers.ToBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByItemHandler", "bids retrieved successfully", map[string]any{
		"item_id": itemID,
		"count":   len(resp),
	})
}

// GetWinningBidHandler handles GET /items/:item_id/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	bid, err := h.service.GetWinningBid(itemID)
	if err != nil {
		// For auction, winning bid not found -> 404
		if errors.Is(err, biddingerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"item_id": itemID})
			return
		}
		helpers.RespondError(c, "GetWinningBidHandler", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":  bid.BidID,
		"item_id": bid.ItemID,
		"user_id": bid.UserID,
		"amount":  bid.Amount,
	})
}

// GetItemsByUserHandler handles GET /users/:user_id/items
func (h *BiddingHandler) GetItemsByUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	items, err := h.service.GetItemsByUser(userID)
	if err != nil && !errors.Is(err, biddingerrors.ErrUserNoBids) {
		helpers.RespondError(c, "GetItemsByUserHandler", err, map[string]any{"user_id": userID})
		return
	}

	if items == nil {
		items = []model.Item{}
	}

	utils.JSONResponse(c, http.StatusOK, items, "items retrieved successfully")
	helpers.LogSuccess("GetItemsByUserHandler", "items retrieved successfully", map[string]any{
		"user_id":     userID,
		"items_count": len(items),
	})
}
