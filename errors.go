package encryptor

import "errors"

var (
	// ErrUnknownDriver is returned when a driver name is not in the registry.
	ErrUnknownDriver = errors.New("encryptor: unknown driver")

	// ErrUnsupportedProtocol is returned when crypto_protocol names an
	// algorithm a driver does not implement.
	ErrUnsupportedProtocol = errors.New("encryptor: unsupported protocol")

	// ErrKeyNotBound is returned when Encrypt or Decrypt is called before a
	// successful BindKey. This is a caller bug, not a transient condition.
	ErrKeyNotBound = errors.New("encryptor: key not bound")

	// ErrInvalidKeySize is returned when the bound key material does not fit
	// the configured protocol (16 bytes for aes-128-cbc).
	ErrInvalidKeySize = errors.New("encryptor: invalid key size")

	// ErrDecryptionFailed is returned when ciphertext cannot be decrypted
	// (truncated input, wrong key surfacing as bad padding).
	ErrDecryptionFailed = errors.New("encryptor: decryption failed")
)

// IsUnknownDriver returns true if the error is or wraps ErrUnknownDriver.
func IsUnknownDriver(err error) bool {
	return errors.Is(err, ErrUnknownDriver)
}

// IsUnsupportedProtocol returns true if the error is or wraps ErrUnsupportedProtocol.
func IsUnsupportedProtocol(err error) bool {
	return errors.Is(err, ErrUnsupportedProtocol)
}

// IsKeyNotBound returns true if the error is or wraps ErrKeyNotBound.
func IsKeyNotBound(err error) bool {
	return errors.Is(err, ErrKeyNotBound)
}

// IsInvalidKeySize returns true if the error is or wraps ErrInvalidKeySize.
func IsInvalidKeySize(err error) bool {
	return errors.Is(err, ErrInvalidKeySize)
}

// IsDecryptionFailed returns true if the error is or wraps ErrDecryptionFailed.
func IsDecryptionFailed(err error) bool {
	return errors.Is(err, ErrDecryptionFailed)
}
