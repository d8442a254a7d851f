package wire

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPakeBodyRoundTrip(t *testing.T) {
	share := make([]byte, 65)
	_, err := rand.Read(share)
	require.NoError(t, err)

	body, err := EncodePakeBody(share)
	require.NoError(t, err)

	decoded, err := DecodePakeBody(body)
	require.NoError(t, err)
	assert.Equal(t, share, decoded)
}

func TestPakeBodyWireContract(t *testing.T) {
	// The body is hex over JSON over hex, fixed by the protocol.
	body, err := EncodePakeBody([]byte{0x04, 0x01})
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString([]byte(`{"pake_v1":"0401"}`)), body)

	decoded, err := DecodePakeBody(hex.EncodeToString([]byte(`{"pake_v1":"0401"}`)))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x01}, decoded)
}

func TestEncodePakeBodyEmptyShare(t *testing.T) {
	_, err := EncodePakeBody(nil)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestDecodePakeBodyErrors(t *testing.T) {
	cases := map[string]string{
		"not hex":       "zz",
		"not json":      hex.EncodeToString([]byte("not json")),
		"json array":    hex.EncodeToString([]byte(`["pake_v1"]`)),
		"missing key":   hex.EncodeToString([]byte(`{"other":"0401"}`)),
		"inner not hex": hex.EncodeToString([]byte(`{"pake_v1":"zz"}`)),
		"odd inner hex": hex.EncodeToString([]byte(`{"pake_v1":"040"}`)),
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			share, err := DecodePakeBody(body)
			assert.ErrorIs(t, err, ErrMalformedMessage)
			assert.Nil(t, share)
		})
	}
}

func TestNewPakeMessage(t *testing.T) {
	msg, err := NewPakeMessage([]byte{0x04, 0x01}, "alice")
	require.NoError(t, err)

	assert.Equal(t, PhasePake, msg.Phase)
	assert.Equal(t, TypeMessage, msg.Type)
	assert.Equal(t, "alice", msg.Side)

	share, err := DecodePakeBody(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x01}, share)
}
