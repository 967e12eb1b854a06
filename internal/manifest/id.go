package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

// PhotoID derives the stable identifier for a storage key: the
// basename-without-extension, optionally suffixed with the first
// digestSuffixLength hex characters of sha256(key).
//
// digestSuffixLength == 0 reproduces the source project's default and its
// documented hazard: identical basenames in different folders collide
// (§9 open question). Callers that want collision safety should pass a
// positive digestSuffixLength.
func PhotoID(key string, digestSuffixLength int) string {
	base := path.Base(key)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if digestSuffixLength <= 0 {
		return stem
	}

	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	if digestSuffixLength > len(digest) {
		digestSuffixLength = len(digest)
	}
	return stem + "-" + digest[:digestSuffixLength]
}
