// Package spake2 implements the symmetric variant of the SPAKE2
// password-authenticated key exchange over the NIST P-256 group.
//
// Both peers are constructed from the same password and the same application
// identity. Each peer emits one blinded share, consumes the peer's share, and
// derives a 32-byte session key. An attacker observing both shares learns
// nothing about the password or the key; a peer holding a different password
// derives a different key.
//
// Unlike the client/server mode of RFC 9382, the symmetric variant uses a
// single blinding constant S for both directions, so a share carries no role
// information. The two shares enter the key-derivation transcript in
// lexicographic byte order, which makes the derived key independent of who
// sent first.
//
//	a, _ := spake2.NewSymmetric(password, appID, nil)
//	b, _ := spake2.NewSymmetric(password, appID, nil)
//	shareA, _ := a.Start()
//	shareB, _ := b.Start()
//	keyA, _ := a.Finish(shareB)
//	keyB, _ := b.Finish(shareA)
//	// bytes.Equal(keyA, keyB) == true
package spake2
