package hashutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestBLAKE3BytesIsDeterministic(t *testing.T) {
	a := BLAKE3Bytes([]byte("hello gallery"))
	b := BLAKE3Bytes([]byte("hello gallery"))
	if a != b {
		t.Fatalf("expected deterministic digest, got %q != %q", a, b)
	}
	if a == BLAKE3Bytes([]byte("hello gallery!")) {
		t.Fatal("expected distinct digests for distinct input")
	}
}

func TestBLAKE3ReaderMatchesBLAKE3Bytes(t *testing.T) {
	data := []byte("same bytes, different entry point")
	fromBytes := BLAKE3Bytes(data)
	fromReader, err := BLAKE3Reader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("BLAKE3Reader: %v", err)
	}
	if fromBytes != fromReader {
		t.Fatalf("got %q from reader, want %q", fromReader, fromBytes)
	}
}

func TestSHA256HexIsDeterministic(t *testing.T) {
	a := SHA256Hex("albums/2026/IMG_0001.jpg")
	b := SHA256Hex("albums/2026/IMG_0001.jpg")
	if a != b || len(a) != 64 {
		t.Fatalf("got %q (len %d), want deterministic 64-char hex", a, len(a))
	}
}

func TestQuickFileHashSmallFileMatchesFullRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.bin")
	data := []byte("a small file well under the quick-hash threshold")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := QuickFileHash(path)
	if err != nil {
		t.Fatalf("QuickFileHash: %v", err)
	}
	want := BLAKE3Bytes(data)
	if got != want {
		t.Fatalf("got %q, want %q (full-file hash for a file below threshold)", got, want)
	}
}
