package file

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leoh0/swift-encrypt/keystore"
)

func writeKeyFile(t *testing.T, dir, id, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, id+keyFileExt), []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestGetKey(t *testing.T) {
	dir := t.TempDir()
	writeKeyFile(t, dir, "k1", "00010203\n")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := s.GetKey(context.Background(), "k1")
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if !bytes.Equal(got, []byte{0, 1, 2, 3}) {
		t.Errorf("GetKey: got %x, want 00010203", got)
	}
}

func TestGetKeyNotFound(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.GetKey(context.Background(), "missing")
	if !keystore.IsKeyNotFound(err) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGetKeyMalformedHex(t *testing.T) {
	dir := t.TempDir()
	writeKeyFile(t, dir, "bad", "zz-not-hex")

	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.GetKey(context.Background(), "bad")
	if err == nil {
		t.Error("expected error for malformed hex")
	}
}

func TestGetKeyRejectsTraversal(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"", ".", "..", "../outside", `a\b`, "a/b"} {
		_, err := s.GetKey(context.Background(), id)
		if !keystore.IsInvalidKeyID(err) {
			t.Errorf("GetKey(%q): expected ErrInvalidKeyID, got %v", id, err)
		}
	}
}

func TestNewEmptyDir(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestRegisteredWithKeystore(t *testing.T) {
	dir := t.TempDir()
	writeKeyFile(t, dir, "k1", "0a0b0c0d")

	ks, err := keystore.Open(map[string]string{ConfPath: dir}, DriverName)
	if err != nil {
		t.Fatalf("keystore.Open(%s): %v", DriverName, err)
	}

	got, err := ks.GetKey(context.Background(), "k1")
	if err != nil {
		t.Fatalf("GetKey through registry: %v", err)
	}
	if !bytes.Equal(got, []byte{10, 11, 12, 13}) {
		t.Errorf("GetKey: got %x, want 0a0b0c0d", got)
	}
}

func TestFromConfigMissingPath(t *testing.T) {
	_, err := FromConfig(map[string]string{})
	if err == nil {
		t.Errorf("expected error when %s is absent", ConfPath)
	}
}
