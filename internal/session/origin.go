package session

import (
	"net/http"
	"net/url"
	"strings"

	"live-auction/utils"
)

// NewOriginPolicy returns a CheckOrigin func admitting the configured
// origins. "*" admits every origin. Requests without an Origin header come
// from non-browser clients and are admitted; they still need a token.
func NewOriginPolicy(origins []string) func(r *http.Request) bool {
	allowed, allowAll := normalizeOrigins(origins)

	return func(r *http.Request) bool {
		header := r.Header.Get("Origin")
		if header == "" || allowAll {
			return true
		}

		origin, ok := normalizeOrigin(header)
		if ok {
			if _, exists := allowed[origin]; exists {
				return true
			}
		}

		utils.Warn("blocked websocket upgrade from disallowed origin", map[string]any{"origin": header})
		return false
	}
}

func normalizeOrigins(origins []string) (map[string]struct{}, bool) {
	allowed := make(map[string]struct{}, len(origins))
	allowAll := false

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		switch trimmed {
		case "":
			continue
		case "*":
			allowAll = true
			continue
		}

		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			utils.Warn("ignoring invalid origin in configuration", map[string]any{"origin": origin})
			continue
		}
		allowed[normalized] = struct{}{}
	}
	return allowed, allowAll
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
