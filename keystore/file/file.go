// Package file provides a KeyStore reading one hex-encoded key file per key
// identifier from a directory: the key "k1" lives in <dir>/k1.key.
//
// The store registers itself under the name "file"; the directory comes from
// the crypto_keystore_path configuration key.
package file

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/leoh0/swift-encrypt/keystore"
)

// DriverName is the registry name of this keystore.
const DriverName = "file"

// ConfPath holds the directory containing the key files.
const ConfPath = "crypto_keystore_path"

// keyFileExt is appended to the key identifier to form the file name.
const keyFileExt = ".key"

// Store reads keys from a directory. It is safe for concurrent use; all
// state lives on the filesystem.
type Store struct {
	dir string
}

// New creates a Store reading key files from dir.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("file: key directory must not be empty")
	}
	return &Store{dir: dir}, nil
}

// GetKey reads and decodes <dir>/<keyID>.key. Identifiers that would escape
// the key directory are rejected.
func (s *Store) GetKey(ctx context.Context, keyID string) ([]byte, error) {
	if keyID == "" || keyID == "." || keyID == ".." || strings.ContainsAny(keyID, `/\`) {
		return nil, fmt.Errorf("%w: %q", keystore.ErrInvalidKeyID, keyID)
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, keyID+keyFileExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", keystore.ErrKeyNotFound, keyID)
	}
	if err != nil {
		return nil, fmt.Errorf("file: read key %q: %w", keyID, err)
	}
	defer clear(raw)

	// The hex error is dropped on purpose: it quotes the offending byte,
	// which here is key material.
	key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("file: key %q is not valid hex", keyID)
	}
	return key, nil
}

// Compile-time interface check.
var _ keystore.KeyStore = (*Store)(nil)

// FromConfig builds a Store from the crypto_keystore_path mapping.
func FromConfig(conf map[string]string) (keystore.KeyStore, error) {
	dir := conf[ConfPath]
	if dir == "" {
		return nil, fmt.Errorf("file: %s is required", ConfPath)
	}
	return New(dir)
}

func init() {
	if err := keystore.Register(DriverName, FromConfig); err != nil {
		panic(err)
	}
}
