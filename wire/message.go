// Package wire frames the key-exchange conversation: one JSON record per
// newline-terminated line, with the cryptographic payload nested inside the
// body field as hex-wrapped JSON.
package wire

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// PhasePake is the phase tag of the key-agreement message.
	PhasePake = "pake"

	// TypeMessage is the type tag of every exchanged record.
	TypeMessage = "message"

	// pakeKey is the body entry holding the hex-encoded share.
	pakeKey = "pake_v1"
)

var (
	// ErrChannelClosed indicates the stream ended before a full message
	// arrived
	ErrChannelClosed = errors.New("channel closed")

	// ErrChannelWrite indicates the underlying stream rejected a write
	ErrChannelWrite = errors.New("channel write failed")

	// ErrMalformedMessage indicates a message that does not follow the wire
	// contract
	ErrMalformedMessage = errors.New("malformed wire message")
)

// Message is one line of the wire conversation.
type Message struct {
	Phase string `json:"phase"`
	Body  string `json:"body"`
	Side  string `json:"side"`
	Type  string `json:"type"`
}

// NewPakeMessage builds the pake-phase message carrying a share for the
// given side.
func NewPakeMessage(share []byte, side string) (*Message, error) {
	body, err := EncodePakeBody(share)
	if err != nil {
		return nil, err
	}
	return &Message{
		Phase: PhasePake,
		Body:  body,
		Side:  side,
		Type:  TypeMessage,
	}, nil
}

// EncodePakeBody wraps raw share bytes into the body encoding: the share is
// hex-encoded, placed under the "pake_v1" key of a JSON object, and that
// object's serialization is hex-encoded again. The double encoding is the
// wire contract; peers apply the identical two-level decode.
func EncodePakeBody(share []byte) (string, error) {
	if len(share) == 0 {
		return "", fmt.Errorf("%w: empty share", ErrMalformedMessage)
	}
	inner, err := json.Marshal(map[string]string{
		pakeKey: hex.EncodeToString(share),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return hex.EncodeToString(inner), nil
}

// DecodePakeBody is the exact inverse of EncodePakeBody. Any hex-decode
// failure, JSON-decode failure or missing "pake_v1" key yields
// ErrMalformedMessage.
func DecodePakeBody(body string) ([]byte, error) {
	raw, err := hex.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: body is not hex: %v", ErrMalformedMessage, err)
	}
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: body is not a JSON object: %v", ErrMalformedMessage, err)
	}
	entry, ok := fields[pakeKey]
	if !ok {
		return nil, fmt.Errorf("%w: body has no %q entry", ErrMalformedMessage, pakeKey)
	}
	share, err := hex.DecodeString(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %q entry is not hex: %v", ErrMalformedMessage, pakeKey, err)
	}
	return share, nil
}
