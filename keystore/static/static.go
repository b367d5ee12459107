// Package static provides an in-memory KeyStore. Key material is sealed in
// memguard enclaves between lookups; GetKey returns a fresh copy per call.
//
// The store registers itself under the name "static". When constructed from
// configuration, keys come from crypto_keystore_keys as comma-separated
// id=hex pairs:
//
//	crypto_keystore_keys = "k1=30313233...,k2=66656463..."
package static

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/leoh0/swift-encrypt/keystore"
)

// DriverName is the registry name of this keystore.
const DriverName = "static"

// ConfKeys holds the comma-separated id=hex key entries.
const ConfKeys = "crypto_keystore_keys"

// Store is an in-memory KeyStore. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	keys map[string]*memguard.Enclave
	err  error // deferred validation error from options
}

// Option configures a Store.
type Option func(*Store)

// WithKey adds a key under the given identifier. The bytes are copied and
// sealed; the caller may zero the original after construction.
func WithKey(id string, key []byte) Option {
	return func(s *Store) {
		if s.err != nil {
			return
		}
		if id == "" {
			s.err = fmt.Errorf("%w: key ID must not be empty", keystore.ErrInvalidKeyID)
			return
		}
		if len(key) == 0 {
			s.err = fmt.Errorf("static: key %q has no material", id)
			return
		}
		b := make([]byte, len(key))
		copy(b, key)
		// NewEnclave wipes its input, which is why it gets the copy.
		s.keys[id] = memguard.NewEnclave(b)
	}
}

// WithHexKey adds a hex-encoded key under the given identifier.
func WithHexKey(id, hexKey string) Option {
	return func(s *Store) {
		if s.err != nil {
			return
		}
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			s.err = fmt.Errorf("static: key %q is not valid hex", id)
			return
		}
		WithKey(id, key)(s)
	}
}

// New creates a Store holding the keys supplied via options.
func New(opts ...Option) (*Store, error) {
	s := &Store{keys: map[string]*memguard.Enclave{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

// GetKey returns a copy of the key material for keyID.
func (s *Store) GetKey(ctx context.Context, keyID string) ([]byte, error) {
	s.mu.RLock()
	enclave := s.keys[keyID]
	s.mu.RUnlock()
	if enclave == nil {
		return nil, fmt.Errorf("%w: %s", keystore.ErrKeyNotFound, keyID)
	}

	buf, err := enclave.Open()
	if err != nil {
		return nil, fmt.Errorf("static: open key %q: %w", keyID, err)
	}
	defer buf.Destroy()

	out := make([]byte, buf.Size())
	copy(out, buf.Bytes())
	return out, nil
}

// Compile-time interface check.
var _ keystore.KeyStore = (*Store)(nil)

// FromConfig builds a Store from the crypto_keystore_keys mapping.
func FromConfig(conf map[string]string) (keystore.KeyStore, error) {
	spec := conf[ConfKeys]
	if spec == "" {
		return nil, fmt.Errorf("static: %s is required", ConfKeys)
	}

	var opts []Option
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, hexKey, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("static: malformed key entry %q, want id=hex", pair)
		}
		opts = append(opts, WithHexKey(strings.TrimSpace(id), strings.TrimSpace(hexKey)))
	}
	return New(opts...)
}

func init() {
	if err := keystore.Register(DriverName, FromConfig); err != nil {
		panic(err)
	}
}
