// Package exchange runs the key-agreement conversation: it drives one
// spake2.Symmetric engine over one wire.Channel and returns the derived
// session key.
package exchange

import (
	"fmt"

	"github.com/backkem/pake-exchange/spake2"
	"github.com/backkem/pake-exchange/wire"
	"github.com/sirupsen/logrus"
)

// Run performs one complete exchange over ch: generate the outbound share,
// send it, block for the peer's share, derive the session key. The order is
// fixed; Run never receives before it has sent. Any failure is terminal for
// this invocation; nothing is retried.
func Run(ch *wire.Channel, params Params) ([]byte, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "Run",
		"package":  "exchange",
		"side":     params.Side,
	})

	if err := params.Validate(); err != nil {
		return nil, err
	}

	engine, err := spake2.NewSymmetric([]byte(params.Code), []byte(params.AppID), nil)
	if err != nil {
		return nil, err
	}

	outbound, err := engine.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to generate outbound share: %w", err)
	}

	msg, err := wire.NewPakeMessage(outbound, params.Side)
	if err != nil {
		return nil, err
	}
	if err := ch.Send(msg); err != nil {
		logger.WithError(err).Error("Failed to send pake message")
		return nil, err
	}
	logger.Debug("Sent pake share, waiting for peer")

	reply, err := ch.Receive()
	if err != nil {
		logger.WithError(err).Error("Failed to receive pake message")
		return nil, err
	}
	if reply.Phase != wire.PhasePake || reply.Type != wire.TypeMessage {
		return nil, fmt.Errorf("%w: unexpected phase %q type %q",
			wire.ErrMalformedMessage, reply.Phase, reply.Type)
	}

	inbound, err := wire.DecodePakeBody(reply.Body)
	if err != nil {
		return nil, err
	}

	key, err := engine.Finish(inbound)
	if err != nil {
		logger.WithError(err).Error("Failed to derive session key")
		return nil, err
	}
	logger.WithField("peer", reply.Side).Debug("Derived session key")

	return key, nil
}
