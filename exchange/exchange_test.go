package exchange

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/backkem/pake-exchange/spake2"
	"github.com/backkem/pake-exchange/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// endpoint is one end of an in-memory duplex channel. Writes are buffered so
// that two peers can both send before either reads, like a real socket.
type endpoint struct {
	in   chan []byte
	out  chan []byte
	rest []byte
}

func newDuplex() (*endpoint, *endpoint) {
	ab := make(chan []byte, 16)
	ba := make(chan []byte, 16)
	return &endpoint{in: ba, out: ab}, &endpoint{in: ab, out: ba}
}

func (e *endpoint) Read(p []byte) (int, error) {
	if len(e.rest) == 0 {
		chunk, ok := <-e.in
		if !ok {
			return 0, io.EOF
		}
		e.rest = chunk
	}
	n := copy(p, e.rest)
	e.rest = e.rest[n:]
	return n, nil
}

func (e *endpoint) Write(p []byte) (int, error) {
	chunk := make([]byte, len(p))
	copy(chunk, p)
	e.out <- chunk
	return len(p), nil
}

type runResult struct {
	key []byte
	err error
}

func runAsync(e *endpoint, params Params) <-chan runResult {
	results := make(chan runResult, 1)
	go func() {
		key, err := Run(wire.NewChannel(e, e), params)
		results <- runResult{key: key, err: err}
	}()
	return results
}

func TestRunEndToEnd(t *testing.T) {
	a, b := newDuplex()

	alice := runAsync(a, Params{Code: "supersecret", AppID: "app-1", Side: "alice"})
	bob := runAsync(b, Params{Code: "supersecret", AppID: "app-1", Side: "bob"})

	resA := <-alice
	resB := <-bob
	require.NoError(t, resA.err)
	require.NoError(t, resB.err)

	assert.Equal(t, resA.key, resB.key, "both sides must report the same session key")
	assert.Len(t, resA.key, spake2.SessionKeySize)
}

func TestRunAppIDMismatch(t *testing.T) {
	a, b := newDuplex()

	alice := runAsync(a, Params{Code: "supersecret", AppID: "app-1", Side: "alice"})
	bob := runAsync(b, Params{Code: "supersecret", AppID: "app-2", Side: "bob"})

	resA := <-alice
	resB := <-bob

	// Without a confirmation phase a mismatch is not detected, it just
	// yields disagreeing keys.
	require.NoError(t, resA.err)
	require.NoError(t, resB.err)
	assert.NotEqual(t, resA.key, resB.key)
}

func TestRunWireFormat(t *testing.T) {
	a, b := newDuplex()

	alice := runAsync(a, Params{Code: "supersecret", AppID: "app-1", Side: "alice"})

	// Play the peer by hand: read alice's line off the channel and check
	// every field of the wire contract.
	peer := wire.NewChannel(b, b)
	msg, err := peer.Receive()
	require.NoError(t, err)
	assert.Equal(t, "pake", msg.Phase)
	assert.Equal(t, "message", msg.Type)
	assert.Equal(t, "alice", msg.Side)

	inbound, err := wire.DecodePakeBody(msg.Body)
	require.NoError(t, err)

	engine, err := spake2.NewSymmetric([]byte("supersecret"), []byte("app-1"), nil)
	require.NoError(t, err)
	share, err := engine.Start()
	require.NoError(t, err)

	reply, err := wire.NewPakeMessage(share, "bob")
	require.NoError(t, err)
	require.NoError(t, peer.Send(reply))

	peerKey, err := engine.Finish(inbound)
	require.NoError(t, err)

	res := <-alice
	require.NoError(t, res.err)
	assert.Equal(t, peerKey, res.key)
}

func TestRunPeerClosesChannel(t *testing.T) {
	a, b := newDuplex()
	close(b.out)

	res := <-runAsync(a, Params{Code: "supersecret", AppID: "app-1", Side: "alice"})
	assert.ErrorIs(t, res.err, wire.ErrChannelClosed)
	assert.Nil(t, res.key)
}

func TestRunMalformedPeerMessage(t *testing.T) {
	cases := map[string]string{
		"not json":    "garbage\n",
		"bad body":    `{"phase":"pake","body":"zz","side":"bob","type":"message"}` + "\n",
		"wrong phase": `{"phase":"version","body":"00","side":"bob","type":"message"}` + "\n",
		"wrong type":  `{"phase":"pake","body":"00","side":"bob","type":"ack"}` + "\n",
	}

	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			a, b := newDuplex()
			b.out <- []byte(line)

			res := <-runAsync(a, Params{Code: "supersecret", AppID: "app-1", Side: "alice"})
			assert.ErrorIs(t, res.err, wire.ErrMalformedMessage)
			assert.Nil(t, res.key)
		})
	}
}

func TestRunShortInboundShare(t *testing.T) {
	a, b := newDuplex()

	// A body that decodes cleanly but carries too few share bytes.
	body, err := wire.EncodePakeBody([]byte{0x04, 0x01})
	require.NoError(t, err)
	line, err := json.Marshal(&wire.Message{
		Phase: wire.PhasePake,
		Body:  body,
		Side:  "bob",
		Type:  wire.TypeMessage,
	})
	require.NoError(t, err)
	b.out <- append(line, '\n')

	res := <-runAsync(a, Params{Code: "supersecret", AppID: "app-1", Side: "alice"})
	assert.ErrorIs(t, res.err, spake2.ErrMalformedShare)
	assert.Nil(t, res.key)
}

func TestRunInvalidParams(t *testing.T) {
	a, _ := newDuplex()

	_, err := Run(wire.NewChannel(a, a), Params{Code: "", AppID: "app-1", Side: "alice"})
	assert.ErrorIs(t, err, spake2.ErrInvalidParameters)
}
