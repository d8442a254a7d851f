package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDF derives length bytes from ikm using HKDF-SHA256 (RFC 5869).
func HKDF(ikm, salt, info []byte, length int) []byte {
	out := make([]byte, length)
	r := hkdf.New(sha256.New, ikm, salt, info)
	if _, err := io.ReadFull(r, out); err != nil {
		// Only reachable for outputs longer than 255 hash blocks.
		panic(err)
	}
	return out
}
