package spake2

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/backkem/pake-exchange/internal/crypto"
	"go.dedis.ch/kyber/v4"
)

// symmetricPointHex is the compressed encoding of S, the blinding constant
// used by both directions of the symmetric variant. It is the P-256 M
// constant from RFC 9382 Appendix B.
const symmetricPointHex = "02886e2f97ace46e55ba9dd7242579f2993b64e16ef3dcab95afd497333d8fa12f"

// SessionKeySize is the length of the derived session key in bytes.
const SessionKeySize = 32

// sessionKeyInfo is the HKDF info string for the session key.
const sessionKeyInfo = "pake-exchange session key"

// Ciphersuite is a complete set of algorithms for the exchange.
type Ciphersuite struct {
	// Hash function used for password and transcript hashing
	Hash func() hash.Hash

	// Group specific operations
	Group crypto.Group

	// Key derivation function
	KDF func(ikm, salt, info []byte, length int) []byte
}

// DefaultCiphersuite returns the default ciphersuite using the P-256 curve,
// SHA-256 and HKDF-SHA256.
func DefaultCiphersuite() *Ciphersuite {
	return &Ciphersuite{
		Hash:  sha256.New,
		Group: crypto.P256Group(),
		KDF:   crypto.HKDF,
	}
}

// Options holds configuration for a Symmetric exchange.
type Options struct {
	// The ciphersuite to use
	Ciphersuite *Ciphersuite
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{
		Ciphersuite: DefaultCiphersuite(),
	}
}

// symmetricPoint parses the blinding constant S for the given group.
func symmetricPoint(g crypto.Group) (kyber.Point, error) {
	compressed, err := hex.DecodeString(symmetricPointHex)
	if err != nil {
		return nil, err
	}
	return crypto.ParseCompressedPoint(g, compressed)
}

// CheckAvailability reports whether the configured ciphersuite can perform an
// exchange. Callers that treat a missing capability as "skip, don't fail"
// should check before constructing an engine; the engine itself reports the
// same condition as an error from Start.
func CheckAvailability(options *Options) error {
	if options == nil {
		options = DefaultOptions()
	}
	if options.Ciphersuite == nil || options.Ciphersuite.Group == nil ||
		options.Ciphersuite.Hash == nil || options.Ciphersuite.KDF == nil {
		return fmt.Errorf("%w: incomplete ciphersuite", ErrSuiteUnavailable)
	}
	if _, err := symmetricPoint(options.Ciphersuite.Group); err != nil {
		return fmt.Errorf("%w: %v", ErrSuiteUnavailable, err)
	}
	return nil
}
