// Package keystore resolves opaque key identifiers to raw key material for
// the encryption drivers. Implementations register themselves by name; the
// hosting server selects one with the crypto_keystore_driver configuration
// key.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownDriver is returned when a keystore driver name is not in the
	// registry.
	ErrUnknownDriver = errors.New("keystore: unknown driver")

	// ErrKeyNotFound is returned when a key identifier has no entry in the
	// store.
	ErrKeyNotFound = errors.New("keystore: key not found")

	// ErrInvalidKeyID is returned when a key identifier is empty or malformed
	// for the store at hand.
	ErrInvalidKeyID = errors.New("keystore: invalid key ID")
)

// IsUnknownDriver returns true if the error is or wraps ErrUnknownDriver.
func IsUnknownDriver(err error) bool {
	return errors.Is(err, ErrUnknownDriver)
}

// IsKeyNotFound returns true if the error is or wraps ErrKeyNotFound.
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// IsInvalidKeyID returns true if the error is or wraps ErrInvalidKeyID.
func IsInvalidKeyID(err error) bool {
	return errors.Is(err, ErrInvalidKeyID)
}

// KeyStore supplies raw key material for opaque key identifiers.
// Implementations must be safe for concurrent use.
type KeyStore interface {
	// GetKey returns the key material for keyID. The returned slice is a
	// fresh copy owned by the caller. Returns ErrKeyNotFound when keyID is
	// unknown.
	GetKey(ctx context.Context, keyID string) ([]byte, error)
}

// Factory constructs a KeyStore from the configuration mapping.
type Factory func(conf map[string]string) (KeyStore, error)

type registry struct {
	sync.Mutex
	drivers map[string]Factory
}

var drivers = &registry{drivers: map[string]Factory{}}

// Register adds a keystore factory under the supplied name.
func Register(name string, factory Factory) error {
	drivers.Lock()
	defer drivers.Unlock()
	if _, present := drivers.drivers[name]; present {
		return fmt.Errorf("keystore: already registered: %v", name)
	}
	drivers.drivers[name] = factory
	return nil
}

// Open resolves name to a registered factory and constructs a KeyStore from
// conf. Returns ErrUnknownDriver if no factory is registered under name.
func Open(conf map[string]string, name string) (KeyStore, error) {
	drivers.Lock()
	factory := drivers.drivers[name]
	drivers.Unlock()
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
	return factory(conf)
}
