package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "defaults",
			env:  nil,
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, Default(), cfg)
			},
		},
		{
			name: "bare_port_gets_colon",
			env:  map[string]string{"PORT": "9090"},
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, ":9090", cfg.Port)
			},
		},
		{
			name: "host_and_port_kept",
			env:  map[string]string{"PORT": "127.0.0.1:9090"},
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, "127.0.0.1:9090", cfg.Port)
			},
		},
		{
			name: "origins_trimmed",
			env:  map[string]string{"ALLOWED_ORIGINS": " http://a.test , ,https://b.test"},
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, []string{"http://a.test", "https://b.test"}, cfg.AllowedOrigins)
			},
		},
		{
			name: "pebble_backend",
			env:  map[string]string{"STORE_BACKEND": " Pebble ", "PEBBLE_PATH": "/tmp/db"},
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, BackendPebble, cfg.StoreBackend)
				require.Equal(t, "/tmp/db", cfg.PebblePath)
			},
		},
		{
			name: "unknown_backend_falls_back",
			env:  map[string]string{"STORE_BACKEND": "redis"},
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, BackendMemory, cfg.StoreBackend)
			},
		},
		{
			name: "token_ttl_duration_and_seconds",
			env:  map[string]string{"TOKEN_TTL": "90m"},
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, 90*time.Minute, cfg.TokenTTL)
				require.Equal(t, time.Hour, FromEnv(envOf(map[string]string{"TOKEN_TTL": "3600"})).TokenTTL)
				require.Equal(t, Default().TokenTTL, FromEnv(envOf(map[string]string{"TOKEN_TTL": "soon"})).TokenTTL)
			},
		},
		{
			name: "secret_file_can_be_disabled",
			env:  map[string]string{"JWT_SECRET_FILE": "-", "JWT_SECRET": "abc"},
			check: func(t *testing.T, cfg Config) {
				require.Empty(t, cfg.JWTSecretFile)
				require.Equal(t, "abc", cfg.JWTSecret)
			},
		},
		{
			name: "invalid_numbers_fall_back",
			env: map[string]string{
				"MAX_MESSAGE_SIZE": "-1",
				"SEND_BUFFER":      "zero",
				"RATE_LIMIT_RPS":   "0",
				"RATE_LIMIT_BURST": "-5",
			},
			check: func(t *testing.T, cfg Config) {
				def := Default()
				require.Equal(t, def.MaxMessageSize, cfg.MaxMessageSize)
				require.Equal(t, def.SendBuffer, cfg.SendBuffer)
				require.Equal(t, def.RateLimit, cfg.RateLimit)
			},
		},
		{
			name: "valid_numbers",
			env: map[string]string{
				"MAX_MESSAGE_SIZE": "1024",
				"SEND_BUFFER":      "8",
				"RATE_LIMIT_RPS":   "2.5",
				"RATE_LIMIT_BURST": "3",
				"LOG_LEVEL":        "debug",
				"LOG_FORMAT":       "TEXT",
				"SEED_FILE":        "seed.yaml",
			},
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, int64(1024), cfg.MaxMessageSize)
				require.Equal(t, 8, cfg.SendBuffer)
				require.Equal(t, RateLimitConfig{PerSecond: 2.5, Burst: 3}, cfg.RateLimit)
				require.Equal(t, "debug", cfg.LogLevel)
				require.Equal(t, "text", cfg.LogFormat)
				require.Equal(t, "seed.yaml", cfg.SeedFile)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.check(t, FromEnv(envOf(tc.env)))
		})
	}
}
