// Package awskms provides a KeyStore whose key material is unwrapped through
// AWS KMS.
//
// Encrypted key blobs (the output of KMS Encrypt or GenerateDataKey) are
// decrypted at construction time and cached in a static store; the KMS client
// is not retained afterwards.
//
// Usage:
//
//	cfg, err := awsconfig.LoadDefaultConfig(ctx)
//	kmsClient := kms.NewFromConfig(cfg)
//
//	store, err := awskms.New(ctx, kmsClient,
//	    awskms.WithEncryptedKey(encryptedKeyBytes, "k1"),
//	)
package awskms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/kms"

	"github.com/leoh0/swift-encrypt/keystore/static"
)

// Client is the subset of the AWS KMS API used by this keystore.
type Client interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// Option configures the set of keys to unwrap.
type Option func(*options)

type options struct {
	encryptedKeys []encryptedKeyEntry
}

type encryptedKeyEntry struct {
	ciphertext []byte
	id         string
	kmsKeyID   string // KMS key ARN or alias; empty = let KMS determine
}

// WithEncryptedKey adds an encrypted key blob to be unwrapped via KMS
// Decrypt. The id is the identifier the encryption drivers will bind.
func WithEncryptedKey(ciphertext []byte, id string) Option {
	return func(o *options) {
		o.encryptedKeys = append(o.encryptedKeys, encryptedKeyEntry{
			ciphertext: ciphertext,
			id:         id,
		})
	}
}

// WithEncryptedKeyForKMSKey is like WithEncryptedKey but pins the KMS key ARN
// or alias to use for decryption.
func WithEncryptedKeyForKMSKey(ciphertext []byte, id, kmsKeyID string) Option {
	return func(o *options) {
		o.encryptedKeys = append(o.encryptedKeys, encryptedKeyEntry{
			ciphertext: ciphertext,
			id:         id,
			kmsKeyID:   kmsKeyID,
		})
	}
}

// New creates a KeyStore that unwraps keys through AWS KMS. At least one key
// must be supplied via WithEncryptedKey or WithEncryptedKeyForKMSKey.
func New(ctx context.Context, client Client, opts ...Option) (*static.Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.encryptedKeys) == 0 {
		return nil, fmt.Errorf("awskms: at least one encrypted key is required")
	}

	type decryptedKey struct {
		bytes []byte
		id    string
	}
	keys := make([]decryptedKey, 0, len(o.encryptedKeys))
	for _, ek := range o.encryptedKeys {
		input := &kms.DecryptInput{
			CiphertextBlob: ek.ciphertext,
		}
		if ek.kmsKeyID != "" {
			input.KeyId = &ek.kmsKeyID
		}

		out, err := client.Decrypt(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("awskms: failed to decrypt key %q: %w", ek.id, err)
		}
		keys = append(keys, decryptedKey{bytes: out.Plaintext, id: ek.id})
	}

	staticOpts := make([]static.Option, 0, len(keys))
	for _, k := range keys {
		staticOpts = append(staticOpts, static.WithKey(k.id, k.bytes))
	}

	store, err := static.New(staticOpts...)
	if err != nil {
		return nil, fmt.Errorf("awskms: %w", err)
	}

	// Zero the decrypted key bytes now that they've been copied into the store.
	for _, k := range keys {
		clear(k.bytes)
	}

	return store, nil
}
