package encryptor

// Configuration keys recognized by this package. Keystore drivers define
// their own keys in their packages.
const (
	// ConfProtocol selects the cipher algorithm, e.g. "aes-128-cbc".
	ConfProtocol = "crypto_protocol"

	// ConfKeystoreDriver names the keystore driver that supplies key material.
	ConfKeystoreDriver = "crypto_keystore_driver"
)

// Config is the configuration mapping supplied by the hosting server at
// startup. It is shared by the encryption drivers and their keystore and is
// treated as read-only after construction.
type Config map[string]string

// Get returns the value for key, or "" when the key is absent.
func (c Config) Get(key string) string {
	return c[key]
}

// GetDefault returns the value for key, or def when the key is absent or empty.
func (c Config) GetDefault(key, def string) string {
	if v := c[key]; v != "" {
		return v
	}
	return def
}
