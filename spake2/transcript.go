package spake2

import (
	"bytes"
	"encoding/binary"
)

// transcript is the input to session-key derivation:
//
//	 TT = len(id)     || id
//		|| len(id)     || id
//		|| len(first)  || first
//		|| len(second) || second
//		|| len(K)      || K
//		|| len(w)      || w
//
// The identity occupies both identity slots of the RFC 9382 transcript, and
// the two shares are ordered lexicographically rather than by role. Shares in
// the symmetric variant carry no role information, so byte order is the only
// ordering both peers can agree on without negotiation.
type transcript struct {
	identity []byte
	first    []byte
	second   []byte
	k        []byte
	password []byte
}

// newTranscript builds the canonical transcript. local and remote may be
// passed in either order; the transcript sorts them.
func newTranscript(identity, local, remote, k, password []byte) *transcript {
	first, second := local, remote
	if bytes.Compare(first, second) > 0 {
		first, second = second, first
	}
	return &transcript{
		identity: identity,
		first:    first,
		second:   second,
		k:        k,
		password: password,
	}
}

// Bytes returns the serialized transcript.
func (t *transcript) Bytes() []byte {
	var out []byte

	out = appendLengthPrefixed(out, t.identity)
	out = appendLengthPrefixed(out, t.identity)
	out = appendLengthPrefixed(out, t.first)
	out = appendLengthPrefixed(out, t.second)
	out = appendLengthPrefixed(out, t.k)
	out = appendLengthPrefixed(out, t.password)

	return out
}

// appendLengthPrefixed appends data preceded by its length as a
// little-endian 8-byte number.
func appendLengthPrefixed(dst, data []byte) []byte {
	length := make([]byte, 8)
	binary.LittleEndian.PutUint64(length, uint64(len(data)))
	dst = append(dst, length...)
	return append(dst, data...)
}
