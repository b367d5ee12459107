package encryptor

import (
	"context"
	"strings"
	"testing"

	"github.com/leoh0/swift-encrypt/keystore"
	_ "github.com/leoh0/swift-encrypt/keystore/static"
)

// Hex of the 16-byte keys "0123456789abcdef" and "fedcba9876543210".
const (
	testKeyHex = "30313233343536373839616263646566"
	altKeyHex  = "66656463626139383736353433323130"
)

func testConf(t *testing.T) Config {
	t.Helper()
	return Config{
		ConfKeystoreDriver:     "static",
		"crypto_keystore_keys": "k1=" + testKeyHex + ",k2=" + altKeyHex + ",short=6261646b6579",
	}
}

func testDriver(t *testing.T, name string) Driver {
	t.Helper()
	d, err := New(testConf(t), name)
	if err != nil {
		t.Fatalf("New(%s): %v", name, err)
	}
	return d
}

func boundDriver(t *testing.T, name, keyID string) Driver {
	t.Helper()
	d := testDriver(t, name)
	if err := d.BindKey(context.Background(), keyID); err != nil {
		t.Fatalf("BindKey(%s): %v", keyID, err)
	}
	return d
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(testConf(t), "rot13")
	if !IsUnknownDriver(err) {
		t.Errorf("expected ErrUnknownDriver, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "rot13") {
		t.Errorf("error should name the driver: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	if err := Register(AESCBC, newCBC); err == nil {
		t.Error("expected error registering an existing name")
	}
}

func TestRegisterAndNew(t *testing.T) {
	if err := Register("test-passthrough", newPassthrough); err != nil {
		t.Fatalf("Register: %v", err)
	}

	d, err := New(testConf(t), "test-passthrough")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := d.Encrypt([]byte("chunk"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if string(got) != "chunk" {
		t.Errorf("Encrypt: got %q, want %q", got, "chunk")
	}
}

func TestNewMissingKeystoreDriver(t *testing.T) {
	for _, name := range []string{Passthrough, AESCBC} {
		_, err := New(Config{}, name)
		if !keystore.IsUnknownDriver(err) {
			t.Errorf("New(%s) without %s: expected keystore.ErrUnknownDriver, got %v",
				name, ConfKeystoreDriver, err)
		}
	}
}

func TestBindKeyNotFoundPropagates(t *testing.T) {
	for _, name := range []string{Passthrough, AESCBC} {
		d := testDriver(t, name)
		err := d.BindKey(context.Background(), "no-such-key")
		if !keystore.IsKeyNotFound(err) {
			t.Errorf("%s BindKey: expected keystore.ErrKeyNotFound, got %v", name, err)
		}
		if err != nil && !strings.Contains(err.Error(), "no-such-key") {
			t.Errorf("%s BindKey error should carry the key ID: %v", name, err)
		}
	}
}

func TestNewSessionKeyNotFound(t *testing.T) {
	for _, name := range []string{Passthrough, AESCBC} {
		d := testDriver(t, name)
		sessioner, ok := d.(Sessioner)
		if !ok {
			t.Fatalf("%s driver does not implement Sessioner", name)
		}
		_, err := sessioner.NewSession(context.Background(), "no-such-key")
		if !keystore.IsKeyNotFound(err) {
			t.Errorf("%s NewSession: expected keystore.ErrKeyNotFound, got %v", name, err)
		}
	}
}
