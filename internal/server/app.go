package server

import (
	"net/http"
	"time"

	"live-auction/internal/auth"
	bidding "live-auction/internal/biddingService"
	chat "live-auction/internal/chatService"
	"live-auction/internal/config"
	"live-auction/internal/directory"
	"live-auction/internal/metrics"
	"live-auction/internal/repository"
	"live-auction/internal/rooms"
	"live-auction/internal/session"
	biddinghandler "live-auction/services/bidding/handler"
	chathandler "live-auction/services/chat/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App is the fully wired engine behind one HTTP listener
type App struct {
	Router       *gin.Engine
	Sessions     *session.Handler
	Verifier     *auth.Verifier
	Ledger       *bidding.BiddingService
	Messages     *chat.ChatService
	AuctionRooms *rooms.Registry
	ChatRooms    *rooms.Registry
	Metrics      *metrics.Metrics
}

// AppDeps are the long-lived resources an App is built on
type AppDeps struct {
	Store      repository.Store
	Directory  *directory.Memory
	SigningKey []byte
	// Registry receives the engine collectors and backs /metrics. Nil uses
	// a fresh registry.
	Registry *prometheus.Registry
}

// NewApp wires the ledger, message log, registries, session handler and
// REST handlers into a router.
func NewApp(cfg config.Config, deps AppDeps) *App {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	verifier := auth.NewVerifier(deps.SigningKey, deps.Directory, cfg.TokenTTL)
	ledger := bidding.NewBiddingService(deps.Store, deps.Directory)
	messages := chat.NewChatService(deps.Store)
	auctionRooms := rooms.NewRegistry(m.RoomObserver(metrics.KindAuction))
	chatRooms := rooms.NewRegistry(m.RoomObserver(metrics.KindChat))

	sessions := session.NewHandler(session.Deps{
		Verifier:     verifier,
		Ledger:       ledger,
		Messages:     messages,
		Catalog:      deps.Directory,
		Users:        deps.Directory,
		AuctionRooms: auctionRooms,
		ChatRooms:    chatRooms,
		Metrics:      m,
	}, session.OptionsFromConfig(cfg))

	biddingHandler := biddinghandler.NewBiddingHandler(ledger, sessions)
	chatHandler := chathandler.NewChatHandler(messages, chatRooms, deps.Directory, sessions)
	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})

	return &App{
		Router:       SetupRouter(biddingHandler, chatHandler, metricsHandler),
		Sessions:     sessions,
		Verifier:     verifier,
		Ledger:       ledger,
		Messages:     messages,
		AuctionRooms: auctionRooms,
		ChatRooms:    chatRooms,
		Metrics:      m,
	}
}

// CreateServer creates an HTTP server for handler with production timeouts.
// Upgraded connections are not bound by them.
func CreateServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
