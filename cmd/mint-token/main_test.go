package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"live-auction/internal/auth"
	"live-auction/internal/directory"

	"github.com/stretchr/testify/require"
)

func TestRun_MintsVerifiableToken(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(`
users:
  - user_id: "7"
    username: grace
    email_verified: true
`), 0o600))

	var out bytes.Buffer
	err := run([]string{"--user", "7", "--seed", seed, "--secret", "mint-test-secret", "--ttl", "1h"}, &out)
	require.NoError(t, err)

	dir := directory.NewMemory()
	require.NoError(t, dir.LoadSeed(seed))
	id, ok := auth.NewVerifier([]byte("mint-test-secret"), dir, 0).Verify(strings.TrimSpace(out.String()))
	require.True(t, ok)
	require.Equal(t, "7", id.UserID)
	require.Equal(t, "grace", id.Username)
	require.True(t, id.EmailVerified)
}

func TestRun_SharedKeyFile(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "jwt.key")

	var out bytes.Buffer
	require.NoError(t, run([]string{"-u", "1", "--secret", "", "--secret-file", keyFile}, &out))

	key, err := auth.LoadSigningKey("", keyFile)
	require.NoError(t, err)

	dir := directory.NewMemory()
	require.NoError(t, dir.Apply(directory.DemoSeed()))
	id, ok := auth.NewVerifier(key, dir, 0).Verify(strings.TrimSpace(out.String()))
	require.True(t, ok)
	require.Equal(t, "alice", id.Username)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing_user", args: []string{"--secret", "s"}},
		{name: "unknown_user", args: []string{"--user", "nobody", "--secret", "s"}},
		{name: "extra_argument", args: []string{"--user", "1", "--secret", "s", "extra"}},
		{name: "bad_flag", args: []string{"--nope"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			require.Error(t, run(tc.args, &out))
		})
	}
}
