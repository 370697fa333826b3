package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"live-auction/utils"
)

const keySize = 32

// LoadSigningKey resolves the token signing key once at startup.
//
// An explicit secret wins. Otherwise the hex key in path is used, and
// created with a fresh random key when the file does not exist yet. With
// neither, an ephemeral key is generated; tokens then stop verifying after
// a restart.
func LoadSigningKey(secret, path string) ([]byte, error) {
	if secret != "" {
		return []byte(secret), nil
	}

	if path == "" {
		utils.Warn("no JWT_SECRET or JWT_SECRET_FILE configured, using an ephemeral signing key", nil)
		return randomKey()
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		key, decErr := hex.DecodeString(strings.TrimSpace(string(raw)))
		if decErr != nil {
			return nil, fmt.Errorf("auth: decode signing key %s: %w", path, decErr)
		}
		if len(key) < keySize {
			return nil, fmt.Errorf("auth: signing key %s is shorter than %d bytes", path, keySize)
		}
		return key, nil
	case errors.Is(err, fs.ErrNotExist):
		key, genErr := randomKey()
		if genErr != nil {
			return nil, genErr
		}
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o700); mkErr != nil {
			return nil, fmt.Errorf("auth: create key dir: %w", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(hex.EncodeToString(key)+"\n"), 0o600); wErr != nil {
			return nil, fmt.Errorf("auth: write signing key %s: %w", path, wErr)
		}
		utils.Info("generated new signing key", map[string]any{"path": path})
		return key, nil
	default:
		return nil, fmt.Errorf("auth: read signing key %s: %w", path, err)
	}
}

func randomKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("auth: generate signing key: %w", err)
	}
	return key, nil
}
