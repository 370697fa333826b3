// Package config resolves the runtime settings of the auction server from
// defaults, an optional .env file and the process environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"live-auction/utils"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
)

// RateLimitConfig bounds how many inbound frames one session may send
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// Config holds every setting the server reads at startup
type Config struct {
	Port           string
	AllowedOrigins []string

	JWTSecret     string
	JWTSecretFile string
	TokenTTL      time.Duration

	StoreBackend string
	PebblePath   string
	SeedFile     string

	MaxMessageSize int64
	SendBuffer     int
	RateLimit      RateLimitConfig

	LogLevel  string
	LogFormat string
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Port:           ":8080",
		AllowedOrigins: []string{"http://localhost:8080"},
		JWTSecretFile:  "data/jwt.key",
		TokenTTL:       24 * time.Hour,
		StoreBackend:   BackendMemory,
		PebblePath:     "data/auction.db",
		SeedFile:       "",
		MaxMessageSize: 4096,
		SendBuffer:     256,
		RateLimit: RateLimitConfig{
			PerSecond: 10,
			Burst:     20,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load reads .env when present and then the process environment
func Load() Config {
	if err := godotenv.Load(".env"); err == nil {
		utils.Info("loaded .env", nil)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a sanitised Config from getenv, falling back to defaults
// for anything unset or unparsable.
func FromEnv(getenv func(string) string) Config {
	cfg := Default()

	if port := getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if origins := getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseList(origins)
	}

	cfg.JWTSecret = getenv("JWT_SECRET")
	if path, ok := lookup(getenv, "JWT_SECRET_FILE"); ok {
		cfg.JWTSecretFile = path
	}
	if ttl := getenv("TOKEN_TTL"); ttl != "" {
		cfg.TokenTTL = parseDuration(ttl, cfg.TokenTTL)
	}

	if backend := getenv("STORE_BACKEND"); backend != "" {
		cfg.StoreBackend = strings.ToLower(strings.TrimSpace(backend))
	}
	if path := getenv("PEBBLE_PATH"); path != "" {
		cfg.PebblePath = path
	}
	cfg.SeedFile = getenv("SEED_FILE")

	if size := getenv("MAX_MESSAGE_SIZE"); size != "" {
		cfg.MaxMessageSize = parseInt64(size, cfg.MaxMessageSize)
	}
	if buf := getenv("SEND_BUFFER"); buf != "" {
		cfg.SendBuffer = parseInt(buf, cfg.SendBuffer)
	}
	if rps := getenv("RATE_LIMIT_RPS"); rps != "" {
		cfg.RateLimit.PerSecond = parseFloat(rps, cfg.RateLimit.PerSecond)
	}
	if burst := getenv("RATE_LIMIT_BURST"); burst != "" {
		cfg.RateLimit.Burst = parseInt(burst, cfg.RateLimit.Burst)
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := getenv("LOG_FORMAT"); format != "" {
		cfg.LogFormat = strings.ToLower(format)
	}

	return sanitize(cfg)
}

func sanitize(cfg Config) Config {
	def := Default()

	if cfg.Port == "" {
		cfg.Port = def.Port
	}
	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}
	if cfg.StoreBackend != BackendMemory && cfg.StoreBackend != BackendPebble {
		utils.Warn("unknown STORE_BACKEND, using memory", map[string]any{"store_backend": cfg.StoreBackend})
		cfg.StoreBackend = BackendMemory
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.RateLimit.PerSecond <= 0 {
		cfg.RateLimit.PerSecond = def.RateLimit.PerSecond
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = def.RateLimit.Burst
	}
	if cfg.TokenTTL < 0 {
		cfg.TokenTTL = 0
	}
	return cfg
}

// lookup distinguishes an explicitly empty variable from an unset one;
// getenv cannot, so "-" is accepted as the explicit "none".
func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	switch v {
	case "":
		return "", false
	case "-":
		return "", true
	default:
		return v, true
	}
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(value string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func parseInt64(value string, fallback int64) int64 {
	if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil && n > 0 {
		return n
	}
	return fallback
}

func parseFloat(value string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && f > 0 {
		return f
	}
	return fallback
}

// parseDuration accepts Go durations ("90m") or plain seconds ("3600")
func parseDuration(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
