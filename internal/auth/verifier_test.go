package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"live-auction/internal/directory"
	model "live-auction/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newDirectory() *directory.Memory {
	d := directory.NewMemory()
	d.AddUser(model.User{UserID: "1", Username: "alice", EmailVerified: true})
	d.AddUser(model.User{UserID: "2", Username: "bob"})
	return d
}

func sign(t *testing.T, key []byte, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

// tamper swaps the first signature character, which is never padding
func tamper(token string) string {
	i := strings.LastIndex(token, ".") + 1
	c := byte('A')
	if token[i] == 'A' {
		c = 'B'
	}
	return token[:i] + string(c) + token[i+1:]
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	users := newDirectory()
	v := NewVerifier(testKey, users, time.Hour)

	alice, err := users.FindByID("1")
	require.NoError(t, err)
	valid, err := v.Issue(alice)
	require.NoError(t, err)

	bob, err := users.FindByID("2")
	require.NoError(t, err)
	bobToken, err := v.Issue(bob)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantOK   bool
		wantUser string
		verified bool
	}{
		{name: "valid_token", token: valid, wantOK: true, wantUser: "alice", verified: true},
		{name: "valid_token_unverified_contact", token: bobToken, wantOK: true, wantUser: "bob", verified: false},
		{name: "subject_only", token: sign(t, testKey, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}), wantOK: true, wantUser: "alice", verified: true},
		{name: "empty_token", token: "", wantOK: false},
		{name: "garbage", token: "not-a-token", wantOK: false},
		{name: "tampered_signature", token: tamper(valid), wantOK: false},
		{name: "wrong_key", token: sign(t, []byte("another-key-another-key-another!"), Claims{UserID: "1"}), wantOK: false},
		{name: "unsigned", token: unsigned, wantOK: false},
		{name: "unknown_user", token: sign(t, testKey, Claims{UserID: "404"}), wantOK: false},
		{name: "no_subject", token: sign(t, testKey, Claims{Username: "alice"}), wantOK: false},
		{
			name: "expired",
			token: sign(t, testKey, Claims{UserID: "1", RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			}}),
			wantOK: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			id, ok := v.Verify(tc.token)
			require.Equal(t, tc.wantOK, ok)
			if !tc.wantOK {
				require.Equal(t, model.Identity{}, id)
				return
			}
			require.Equal(t, tc.wantUser, id.Username)
			require.Equal(t, tc.verified, id.EmailVerified)
		})
	}
}

func TestVerifier_IssueStampsExpiry(t *testing.T) {
	t.Parallel()

	v := NewVerifier(testKey, newDirectory(), 30*time.Minute)
	token, err := v.Issue(model.User{UserID: "1", Username: "alice"})
	require.NoError(t, err)

	var claims Claims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return testKey, nil })
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	noTTL := NewVerifier(testKey, newDirectory(), 0)
	token, err = noTTL.Issue(model.User{UserID: "1"})
	require.NoError(t, err)
	claims = Claims{}
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return testKey, nil })
	require.NoError(t, err)
	require.Nil(t, claims.ExpiresAt)
}

func TestLoadSigningKey(t *testing.T) {
	t.Parallel()

	t.Run("explicit_secret", func(t *testing.T) {
		t.Parallel()
		key, err := LoadSigningKey("s3cret", filepath.Join(t.TempDir(), "unused"))
		require.NoError(t, err)
		require.Equal(t, []byte("s3cret"), key)
	})

	t.Run("generate_then_reload", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "keys", "jwt.key")

		first, err := LoadSigningKey("", path)
		require.NoError(t, err)
		require.Len(t, first, keySize)

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		second, err := LoadSigningKey("", path)
		require.NoError(t, err)
		require.Equal(t, first, second, "a persisted key must never be regenerated")
	})

	t.Run("corrupt_file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "jwt.key")
		require.NoError(t, os.WriteFile(path, []byte("zz-not-hex"), 0o600))
		_, err := LoadSigningKey("", path)
		require.Error(t, err)
	})

	t.Run("short_key", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "jwt.key")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("ab", 8)), 0o600))
		_, err := LoadSigningKey("", path)
		require.Error(t, err)
	})

	t.Run("ephemeral", func(t *testing.T) {
		t.Parallel()
		a, err := LoadSigningKey("", "")
		require.NoError(t, err)
		b, err := LoadSigningKey("", "")
		require.NoError(t, err)
		require.Len(t, a, keySize)
		require.NotEqual(t, a, b)
	})
}
