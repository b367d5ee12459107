package encryptor

import (
	"context"
	"fmt"

	"github.com/leoh0/swift-encrypt/keystore"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// passthroughDriver returns chunks unchanged. It keeps the keystore wiring
// and error surface of the real drivers so a deployment that disables
// encryption still fails at the same points on a broken key configuration.
type passthroughDriver struct {
	conf Config
	ks   keystore.KeyStore
}

var (
	_ Driver    = (*passthroughDriver)(nil)
	_ Sessioner = (*passthroughDriver)(nil)
)

func newPassthrough(conf Config) (Driver, error) {
	ks, err := openKeystore(conf)
	if err != nil {
		return nil, err
	}
	return &passthroughDriver{conf: conf, ks: ks}, nil
}

// BindKey consults the keystore for uniformity with the real drivers. The
// key is never used.
func (d *passthroughDriver) BindKey(ctx context.Context, keyID string) error {
	ctx, span := tracer.Start(ctx, "encryptor.BindKey", trace.WithAttributes(
		attribute.String("crypto.driver", Passthrough),
		attribute.String("crypto.key_id", keyID),
	))
	defer span.End()

	key, err := d.ks.GetKey(ctx, keyID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("encryptor: bind key %q: %w", keyID, err)
	}
	clear(key)
	return nil
}

func (d *passthroughDriver) Encrypt(plaintext []byte) ([]byte, error) {
	out := make([]byte, len(plaintext))
	copy(out, plaintext)
	recordOp(Passthrough, opEncrypt, len(plaintext), nil)
	return out, nil
}

func (d *passthroughDriver) Decrypt(ciphertext []byte) ([]byte, error) {
	out := make([]byte, len(ciphertext))
	copy(out, ciphertext)
	recordOp(Passthrough, opDecrypt, len(ciphertext), nil)
	return out, nil
}

func (d *passthroughDriver) CiphertextLen(plaintextLen int) (int, error) {
	return measureCiphertextLen(d, plaintextLen)
}

// NewSession verifies keyID exists in the keystore and returns the driver
// itself; the identity transform carries no per-session state.
func (d *passthroughDriver) NewSession(ctx context.Context, keyID string) (Session, error) {
	ctx, span := tracer.Start(ctx, "encryptor.NewSession", trace.WithAttributes(
		attribute.String("crypto.driver", Passthrough),
		attribute.String("crypto.key_id", keyID),
	))
	defer span.End()

	key, err := d.ks.GetKey(ctx, keyID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("encryptor: session key %q: %w", keyID, err)
	}
	clear(key)
	return d, nil
}
