package encryptor

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"sync"

	"github.com/leoh0/swift-encrypt/keystore"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// protocolAES128CBC is the only algorithm the aes-cbc driver implements.
const protocolAES128CBC = "aes-128-cbc"

// cbcIV is the fixed initialization vector, identical across all instances
// and all calls. The value is carried over from the original deployment so
// existing ciphertext stays readable. Reusing one IV under the same key makes
// encryption deterministic and leaks shared plaintext prefixes; see the
// package documentation.
var cbcIV = []byte("3141527182810345")

// cbcDriver encrypts chunks with AES-128 in CBC mode using PKCS#7 padding.
type cbcDriver struct {
	conf     Config
	protocol string
	ks       keystore.KeyStore

	mu  sync.RWMutex
	key []byte // nil until BindKey succeeds
}

var (
	_ Driver    = (*cbcDriver)(nil)
	_ Sessioner = (*cbcDriver)(nil)
)

func newCBC(conf Config) (Driver, error) {
	protocol := conf.GetDefault(ConfProtocol, protocolAES128CBC)
	if protocol != protocolAES128CBC {
		return nil, fmt.Errorf("%w: %q, driver %s implements only %s",
			ErrUnsupportedProtocol, protocol, AESCBC, protocolAES128CBC)
	}
	ks, err := openKeystore(conf)
	if err != nil {
		return nil, err
	}
	return &cbcDriver{conf: conf, protocol: protocol, ks: ks}, nil
}

// BindKey replaces the active key with the keystore entry for keyID.
func (d *cbcDriver) BindKey(ctx context.Context, keyID string) error {
	ctx, span := tracer.Start(ctx, "encryptor.BindKey", trace.WithAttributes(
		attribute.String("crypto.driver", AESCBC),
		attribute.String("crypto.key_id", keyID),
	))
	defer span.End()

	key, err := d.ks.GetKey(ctx, keyID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("encryptor: bind key %q: %w", keyID, err)
	}

	d.mu.Lock()
	d.key = key
	d.mu.Unlock()
	return nil
}

func (d *cbcDriver) activeKey() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.key
}

func (d *cbcDriver) Encrypt(plaintext []byte) ([]byte, error) {
	key := d.activeKey()
	if key == nil {
		return nil, fmt.Errorf("%w: encrypt called before BindKey", ErrKeyNotBound)
	}
	ciphertext, err := cbcEncrypt(key, plaintext)
	if err != nil {
		err = fmt.Errorf("encryptor: protocol %s: %w", d.protocol, err)
	}
	recordOp(AESCBC, opEncrypt, len(plaintext), err)
	return ciphertext, err
}

func (d *cbcDriver) Decrypt(ciphertext []byte) ([]byte, error) {
	key := d.activeKey()
	if key == nil {
		return nil, fmt.Errorf("%w: decrypt called before BindKey", ErrKeyNotBound)
	}
	plaintext, err := cbcDecrypt(key, ciphertext)
	if err != nil {
		err = fmt.Errorf("encryptor: protocol %s: %w", d.protocol, err)
	}
	recordOp(AESCBC, opDecrypt, len(ciphertext), err)
	return plaintext, err
}

func (d *cbcDriver) CiphertextLen(plaintextLen int) (int, error) {
	return measureCiphertextLen(d, plaintextLen)
}

// NewSession returns an immutable handle keyed to keyID. Later BindKey calls
// on the driver do not affect it.
func (d *cbcDriver) NewSession(ctx context.Context, keyID string) (Session, error) {
	ctx, span := tracer.Start(ctx, "encryptor.NewSession", trace.WithAttributes(
		attribute.String("crypto.driver", AESCBC),
		attribute.String("crypto.key_id", keyID),
	))
	defer span.End()

	key, err := d.ks.GetKey(ctx, keyID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("encryptor: session key %q: %w", keyID, err)
	}
	return &cbcSession{protocol: d.protocol, key: key}, nil
}

// cbcSession is a cbcDriver frozen to one key.
type cbcSession struct {
	protocol string
	key      []byte
}

var _ Session = (*cbcSession)(nil)

func (s *cbcSession) Encrypt(plaintext []byte) ([]byte, error) {
	ciphertext, err := cbcEncrypt(s.key, plaintext)
	if err != nil {
		err = fmt.Errorf("encryptor: protocol %s: %w", s.protocol, err)
	}
	recordOp(AESCBC, opEncrypt, len(plaintext), err)
	return ciphertext, err
}

func (s *cbcSession) Decrypt(ciphertext []byte) ([]byte, error) {
	plaintext, err := cbcDecrypt(s.key, ciphertext)
	if err != nil {
		err = fmt.Errorf("encryptor: protocol %s: %w", s.protocol, err)
	}
	recordOp(AESCBC, opDecrypt, len(ciphertext), err)
	return plaintext, err
}

func (s *cbcSession) CiphertextLen(plaintextLen int) (int, error) {
	return measureCiphertextLen(s, plaintextLen)
}

func cbcEncrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, mapCipherErr(err)
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, cbcIV).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

func cbcDecrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, mapCipherErr(err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d",
			ErrDecryptionFailed, len(ciphertext), aes.BlockSize)
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, cbcIV).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext, aes.BlockSize)
}

// mapCipherErr translates cipher primitive failures into domain errors, so
// no stdlib crypto error crosses the driver boundary unwrapped.
func mapCipherErr(err error) error {
	var size aes.KeySizeError
	if errors.As(err, &size) {
		return fmt.Errorf("%w: %d bytes, want 16", ErrInvalidKeySize, int(size))
	}
	return err
}

// pkcs7Pad appends 1..blockSize bytes, each holding the pad length.
func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// pkcs7Unpad strips the padding appended by pkcs7Pad. A wrong decryption key
// usually surfaces here as invalid padding; without authentication that is
// the only signal, and roughly 1 in 256 wrong-key decryptions slips through
// as garbage plaintext.
func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padded length %d", ErrDecryptionFailed, len(b))
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecryptionFailed)
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("%w: invalid padding", ErrDecryptionFailed)
		}
	}
	return b[:len(b)-n], nil
}
