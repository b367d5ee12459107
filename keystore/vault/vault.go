// Package vault provides a KeyStore whose key material is unwrapped through
// the HashiCorp Vault Transit secrets engine.
//
// Keys are decrypted via the Transit decrypt endpoint at construction time
// and cached in a static store; the Vault client is not retained afterwards.
//
// Usage:
//
//	store, err := vault.New(ctx, client,
//	    vault.WithEncryptedKey("vault:v1:abc123", "k1", "my-transit-key"),
//	)
package vault

import (
	"context"
	"fmt"

	"github.com/leoh0/swift-encrypt/keystore/static"
)

// Client abstracts the Vault Transit decrypt operation. This allows
// injecting a mock for testing or wrapping any Vault client library.
type Client interface {
	// TransitDecrypt decrypts ciphertext using the named Transit key.
	// The ciphertext should be in Vault's format (e.g., "vault:v1:base64data").
	TransitDecrypt(ctx context.Context, keyName string, ciphertext string) ([]byte, error)
}

// Option configures the set of keys to unwrap.
type Option func(*options)

type options struct {
	encryptedKeys []encryptedKeyEntry
}

type encryptedKeyEntry struct {
	ciphertext     string // Vault Transit ciphertext (e.g., "vault:v1:...")
	id             string
	transitKeyName string
}

// WithEncryptedKey adds a Transit-encrypted key to be decrypted at
// construction time. The id is the identifier the encryption drivers will
// bind; transitKeyName is the name of the Transit key in Vault.
func WithEncryptedKey(ciphertext string, id, transitKeyName string) Option {
	return func(o *options) {
		o.encryptedKeys = append(o.encryptedKeys, encryptedKeyEntry{
			ciphertext:     ciphertext,
			id:             id,
			transitKeyName: transitKeyName,
		})
	}
}

// New creates a KeyStore that unwraps keys through the Vault Transit engine.
// At least one key must be supplied via WithEncryptedKey.
func New(ctx context.Context, client Client, opts ...Option) (*static.Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.encryptedKeys) == 0 {
		return nil, fmt.Errorf("vault: at least one encrypted key is required")
	}

	type decryptedKey struct {
		bytes []byte
		id    string
	}
	keys := make([]decryptedKey, 0, len(o.encryptedKeys))
	for _, ek := range o.encryptedKeys {
		plaintext, err := client.TransitDecrypt(ctx, ek.transitKeyName, ek.ciphertext)
		if err != nil {
			return nil, fmt.Errorf("vault: failed to decrypt key %q: %w", ek.id, err)
		}
		keys = append(keys, decryptedKey{bytes: plaintext, id: ek.id})
	}

	staticOpts := make([]static.Option, 0, len(keys))
	for _, k := range keys {
		staticOpts = append(staticOpts, static.WithKey(k.id, k.bytes))
	}

	store, err := static.New(staticOpts...)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}

	for _, k := range keys {
		clear(k.bytes)
	}

	return store, nil
}
