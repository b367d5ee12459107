package encryptor

import (
	"context"
	"testing"
)

func benchmarkDriver(b *testing.B, name string) Driver {
	b.Helper()
	conf := Config{
		ConfKeystoreDriver:     "static",
		"crypto_keystore_keys": "bench-key=" + testKeyHex,
	}
	d, err := New(conf, name)
	if err != nil {
		b.Fatal(err)
	}
	if err := d.BindKey(context.Background(), "bench-key"); err != nil {
		b.Fatal(err)
	}
	return d
}

func benchmarkChunk(size int) []byte {
	chunk := make([]byte, size)
	for i := range chunk {
		chunk[i] = byte(i % 256)
	}
	return chunk
}

func BenchmarkCBCEncrypt4KB(b *testing.B) {
	d := benchmarkDriver(b, AESCBC)
	chunk := benchmarkChunk(4 * 1024)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := d.Encrypt(chunk); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCBCDecrypt4KB(b *testing.B) {
	d := benchmarkDriver(b, AESCBC)
	ciphertext, err := d.Encrypt(benchmarkChunk(4 * 1024))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := d.Decrypt(ciphertext); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCBCEncrypt64KB(b *testing.B) {
	d := benchmarkDriver(b, AESCBC)
	chunk := benchmarkChunk(64 * 1024)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := d.Encrypt(chunk); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCBCDecrypt64KB(b *testing.B) {
	d := benchmarkDriver(b, AESCBC)
	ciphertext, err := d.Encrypt(benchmarkChunk(64 * 1024))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := d.Decrypt(ciphertext); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCBCEncrypt1MB(b *testing.B) {
	d := benchmarkDriver(b, AESCBC)
	chunk := benchmarkChunk(1 << 20)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := d.Encrypt(chunk); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPassthroughEncrypt64KB(b *testing.B) {
	d := benchmarkDriver(b, Passthrough)
	chunk := benchmarkChunk(64 * 1024)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := d.Encrypt(chunk); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCBCCiphertextLen64KB(b *testing.B) {
	d := benchmarkDriver(b, AESCBC)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := d.CiphertextLen(64 * 1024); err != nil {
			b.Fatal(err)
		}
	}
}
