package integrationtests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"live-auction/internal/config"
	"live-auction/internal/directory"
	model "live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("integration-test-key-integration")

var testUsers = []model.User{
	{UserID: "user1", Username: "alice", EmailVerified: true},
	{UserID: "user2", Username: "bob", EmailVerified: true},
	{UserID: "user3", Username: "carol", EmailVerified: true},
	{UserID: "user4", Username: "dave"},
}

// TestServer is a running engine reachable over a real listener
type TestServer struct {
	App *server.App
	URL string
}

// SetupTestServer starts the engine on store with the given catalog items.
func SetupTestServer(t *testing.T, store repository.Store, items ...model.Item) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := directory.NewMemory()
	require.NoError(t, dir.Apply(directory.Seed{Users: testUsers, Items: items}))

	cfg := config.Default()
	cfg.AllowedOrigins = []string{"*"}
	app := server.NewApp(cfg, server.AppDeps{Store: store, Directory: dir, SigningKey: testKey})

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return &TestServer{App: app, URL: srv.URL}
}

// SetupTestServerWithItems starts the engine on an in-memory store.
func SetupTestServerWithItems(t *testing.T, items ...model.Item) *TestServer {
	return SetupTestServer(t, repository.NewMemoryRepo(), items...)
}

// Token mints a bearer token for one of the test users.
func (s *TestServer) Token(t *testing.T, userID string) string {
	t.Helper()
	for _, u := range testUsers {
		if u.UserID == userID {
			token, err := s.App.Verifier.Issue(u)
			require.NoError(t, err)
			return token
		}
	}
	t.Fatalf("unknown test user %s", userID)
	return ""
}

// Dial opens a streaming connection on path as userID.
func (s *TestServer) Dial(t *testing.T, path, userID string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(s.URL, "http") + path + "?token=" + url.QueryEscape(s.Token(t, userID))
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// ReadEvent reads the next JSON frame from conn.
func ReadEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev map[string]any
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

// PlaceBid bids amount on itemID as userID over a fresh auction connection
// and returns the reply addressed to the bidder.
func (s *TestServer) PlaceBid(t *testing.T, itemID, userID string, amount float64) map[string]any {
	t.Helper()
	conn := s.Dial(t, "/ws/auction/"+itemID, userID)
	require.Equal(t, "init", ReadEvent(t, conn)["type"])
	require.NoError(t, conn.WriteJSON(map[string]any{"bid": amount}))
	ev := ReadEvent(t, conn)
	conn.Close()
	return ev
}

// ExecuteRequestAndParse executes a GET on the server and parses the response
func (s *TestServer) ExecuteRequestAndParse(t *testing.T, path string) (map[string]any, int) {
	t.Helper()
	resp, err := http.Get(s.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body, resp.StatusCode
}
