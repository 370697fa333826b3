package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestLoggerAddsServiceField(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	Warn("bid rejected", map[string]any{"item_id": "42"})

	last := hook.LastEntry()
	require.NotNil(t, last)
	require.Equal(t, log.WarnLevel, last.Level)
	require.Equal(t, "bid rejected", last.Message)
	require.Equal(t, ServiceName, last.Data["service"])
	require.Equal(t, "42", last.Data["item_id"])
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 600, time.FixedZone("X", -2*3600))
	require.Equal(t, "2026-01-02T05:04:05.0000006Z", FormatTimestamp(at))
	require.NotEqual(t, GenerateID(), GenerateID())
}

func TestJSONEnvelope(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/ok", func(c *gin.Context) { JSONResponse(c, http.StatusOK, []string{}, "fine") })
	router.GET("/fail", func(c *gin.Context) {
		JSONError(c, http.StatusNotFound, errors.New("item 7 missing"), "item not found")
	})

	tests := []struct {
		path   string
		status int
		want   map[string]any
	}{
		{
			path:   "/ok",
			status: http.StatusOK,
			want:   map[string]any{"status": 200.0, "message": "fine", "data": []any{}},
		},
		{
			path:   "/fail",
			status: http.StatusNotFound,
			want:   map[string]any{"status": 404.0, "message": "item not found", "data": nil, "error": "item 7 missing"},
		},
	}

	for _, tc := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		require.Equal(t, tc.status, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, tc.want, body)
	}
}
