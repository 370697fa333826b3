package server

import (
	"net/http"

	bidding "live-auction/services/bidding/handler"
	chat "live-auction/services/chat/handler"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application. metrics serves
// the Prometheus exposition at /metrics.
func SetupRouter(biddingHandler *bidding.BiddingHandler, chatHandler *chat.ChatHandler, metrics http.Handler) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.GET("/health", HealthHandler)
	router.GET("/metrics", gin.WrapH(metrics))

	router.GET("/auctions", biddingHandler.ListAuctionsHandler)

	items := router.Group("/items")
	{
		items.GET("/:item_id/bids", biddingHandler.GetBidsByItemHandler)
		items.GET("/:item_id/winning", biddingHandler.GetWinningBidHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/items", biddingHandler.GetItemsByUserHandler)
	}

	rooms := router.Group("/rooms")
	{
		rooms.GET("", chatHandler.ListRoomsHandler)
		rooms.GET("/:room/messages", chatHandler.GetMessagesHandler)
	}

	ws := router.Group("/ws")
	{
		ws.GET("/auction/:item_id", biddingHandler.AuctionSocketHandler)
		ws.GET("/chat/:room", chatHandler.ChatSocketHandler)
	}

	return router
}

// HealthHandler handles GET /health
func HealthHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, gin.H{"status": "ok"}, "service healthy")
}
