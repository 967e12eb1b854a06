// Package hashutil provides content hashing helpers: a SHA-256 key digest
// and BLAKE3 fingerprints of byte streams and local files. No other package
// of the builder imports it.
//
// Adapted from the teacher's internal/utils/hash package: same
// algorithm choice (BLAKE3 preferred, SHA256 fallback) and the same
// quick-hash strategy for large files, generalized from file paths to
// arbitrary byte sources.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// QuickHashChunkSize is the size of the head/tail chunks read for the quick
// hash strategy.
const QuickHashChunkSize = 1 * 1024 * 1024

// QuickHashThreshold is the file size above which CalculateFileQuickHash
// switches from a full read to the head+tail+size strategy.
const QuickHashThreshold = 100 * 1024 * 1024

// SHA256Hex returns the hex-encoded SHA256 digest of key, the same digest
// manifest.PhotoID computes for its suffix.
func SHA256Hex(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// BLAKE3Reader hashes an io.Reader fully with BLAKE3 and returns the
// hex-encoded digest.
func BLAKE3Reader(r io.Reader) (string, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("blake3 hash: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// BLAKE3Bytes hashes a byte slice with BLAKE3.
func BLAKE3Bytes(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// QuickFileHash computes a fast content fingerprint for a local file: for
// files at or below QuickHashThreshold it hashes the whole file; above that
// it hashes file size + first chunk + last chunk, trading a (documented)
// collision risk for avoiding a full read of huge RAW/video files on every
// incremental run.
func QuickFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if stat.Size() <= QuickHashThreshold {
		return BLAKE3Reader(f)
	}

	hasher := blake3.New()
	sizeBytes := make([]byte, 8)
	for i := 0; i < 8; i++ {
		sizeBytes[i] = byte(stat.Size() >> (i * 8))
	}
	hasher.Write(sizeBytes)

	head := make([]byte, QuickHashChunkSize)
	n, err := f.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read head of %s: %w", path, err)
	}
	hasher.Write(head[:n])

	tailStart := stat.Size() - QuickHashChunkSize
	if tailStart < QuickHashChunkSize {
		tailStart = QuickHashChunkSize
	}
	tail := make([]byte, QuickHashChunkSize)
	n, err = f.ReadAt(tail, tailStart)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read tail of %s: %w", path, err)
	}
	hasher.Write(tail[:n])

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
