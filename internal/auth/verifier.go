// Package auth turns bearer tokens presented on streaming connections into
// user identities.
package auth

import (
	"errors"
	"fmt"
	"time"

	"live-auction/internal/directory"
	"live-auction/internal/models"
	"live-auction/utils"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by a bearer token
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens and resolves them against the
// user directory.
type Verifier struct {
	key   []byte
	users directory.UserDirectory
	ttl   time.Duration
}

// NewVerifier creates a verifier signing and checking tokens with key.
// A positive ttl stamps issued tokens with an expiry.
func NewVerifier(key []byte, users directory.UserDirectory, ttl time.Duration) *Verifier {
	return &Verifier{
		key:   append([]byte(nil), key...),
		users: users,
		ttl:   ttl,
	}
}

// Issue mints a token for u
func (v *Verifier) Issue(u models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.UserID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.UserID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if v.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(v.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.key)
	if err != nil {
		return "", fmt.Errorf("auth: sign token for user %s: %w", u.UserID, err)
	}
	return token, nil
}

// Verify resolves token to the identity of an existing user. Any malformed,
// badly signed or expired token, or one naming an unknown user, yields false.
func (v *Verifier) Verify(token string) (models.Identity, bool) {
	id, err := v.verify(token)
	if err != nil {
		utils.Warn("token rejected", map[string]any{"error": err.Error()})
		return models.Identity{}, false
	}
	return id, true
}

func (v *Verifier) verify(raw string) (models.Identity, error) {
	if raw == "" {
		return models.Identity{}, errors.New("empty token")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Identity{}, fmt.Errorf("parse token: %w", err)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return models.Identity{}, errors.New("token names no user")
	}

	u, err := v.users.FindByID(userID)
	if err != nil {
		return models.Identity{}, err
	}
	return models.IdentityOf(u), nil
}
