// Package encryptor provides pluggable encryption drivers for the chunk
// read/write path of an object storage server.
//
// Data chunks pass through a Driver before being persisted to disk and on the
// way back to the client. Drivers are resolved by name from a registry, so a
// deployment switches between real encryption and a passthrough by changing
// one configuration value. Key material is never part of the configuration;
// drivers obtain it from a keystore (see the keystore package) using opaque
// key identifiers.
//
// A minimal configuration looks like:
//
//	conf := encryptor.Config{
//	    "crypto_protocol":        "aes-128-cbc",
//	    "crypto_keystore_driver": "static",
//	    "crypto_keystore_keys":   "k1=30313233343536373839616263646566",
//	}
//	drv, err := encryptor.New(conf, encryptor.AESCBC)
//
// Security properties. The aes-cbc driver uses CBC mode with a fixed
// initialization vector shared by every instance and every call. Encrypting
// the same chunk under the same key therefore always yields the same
// ciphertext, and two chunks sharing a plaintext prefix share a ciphertext
// prefix. Ciphertexts carry no authentication tag: decrypting under the wrong
// key returns garbage or a padding error, never a detected forgery. Both
// limitations are load-bearing for on-disk compatibility and for the
// length-accounting contract of CiphertextLen, which requires ciphertext
// length to be a function of plaintext length alone. Deployments needing
// semantic security or integrity must put a different driver behind this
// interface rather than expect it from aes-cbc.
//
// A Driver holds one active key at a time; BindKey replaces it for all
// subsequent calls on that instance. Workers that must not observe each
// other's binds should use NewSession, which returns an immutable handle
// keyed at creation time.
package encryptor
