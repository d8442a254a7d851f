package spake2

import (
	"errors"
	"fmt"

	"github.com/backkem/pake-exchange/internal/crypto"
	"go.dedis.ch/kyber/v4"
)

var (
	// ErrInvalidParameters indicates that the engine was constructed with
	// unusable inputs
	ErrInvalidParameters = errors.New("invalid exchange parameters")

	// ErrMalformedShare indicates that the inbound share is not a valid
	// group element
	ErrMalformedShare = errors.New("malformed inbound share")

	// ErrNotStarted indicates that Finish was called before Start
	ErrNotStarted = errors.New("exchange not started")

	// ErrAlreadyStarted indicates that Start was called twice
	ErrAlreadyStarted = errors.New("exchange already started")

	// ErrAlreadyFinished indicates that the engine was already consumed
	ErrAlreadyFinished = errors.New("exchange already finished")

	// ErrSuiteUnavailable indicates that the configured ciphersuite cannot
	// perform an exchange
	ErrSuiteUnavailable = errors.New("ciphersuite unavailable")
)

// State represents the protocol state
type State int

const (
	// StateInitial is the initial state
	StateInitial State = iota

	// StateStarted means the outbound share has been generated
	StateStarted

	// StateFinished means the session key has been derived
	StateFinished

	// StateFailed means the exchange failed; the engine is dead
	StateFailed
)

// Symmetric is one side of a symmetric SPAKE2 exchange. It is single use:
// Start once, Finish once, in that order.
type Symmetric struct {
	// Configuration options
	options *Options

	// The current protocol state
	state State

	// The shared application identity, identical on both peers
	identity []byte

	// The random blinding scalar x
	scalar kyber.Scalar

	// The password converted to a scalar (w)
	password kyber.Scalar

	// The serialized outbound share, kept for the transcript
	outbound []byte
}

// NewSymmetric creates one side of a symmetric exchange. Both peers must use
// byte-identical password and identity values. Empty values are rejected: a
// password-authenticated exchange with an empty password authenticates
// nothing.
func NewSymmetric(password, identity []byte, options *Options) (*Symmetric, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidParameters)
	}
	if len(identity) == 0 {
		return nil, fmt.Errorf("%w: empty identity", ErrInvalidParameters)
	}
	if options == nil {
		options = DefaultOptions()
	}
	if err := CheckAvailability(options); err != nil {
		return nil, err
	}

	w := derivePassword(password, options.Ciphersuite)

	id := make([]byte, len(identity))
	copy(id, identity)

	return &Symmetric{
		options:  options,
		state:    StateInitial,
		identity: id,
		password: w,
	}, nil
}

// derivePassword converts a password to a scalar suitable for use in the
// protocol.
func derivePassword(password []byte, ciphersuite *Ciphersuite) kyber.Scalar {
	// w = H(pw) mod p

	h := ciphersuite.Hash()
	h.Write(password)
	digest := h.Sum(nil)

	return ciphersuite.Group.Scalar().SetBytes(digest)
}

// State returns the current protocol state.
func (s *Symmetric) State() State {
	return s.state
}

// Start generates the outbound share. The share is a valid group element
// blinded by the password scalar; without the password it is
// indistinguishable from a random element.
func (s *Symmetric) Start() ([]byte, error) {
	if s.state != StateInitial {
		return nil, ErrAlreadyStarted
	}

	group := s.options.Ciphersuite.Group

	// Generate random scalar x
	s.scalar = group.RandomScalar()

	sp, err := symmetricPoint(group)
	if err != nil {
		return nil, fmt.Errorf("failed to load blinding constant: %w", err)
	}

	gen, err := group.Generator()
	if err != nil {
		return nil, fmt.Errorf("failed to get generator: %w", err)
	}

	// Compute X = x*G
	x := group.Point().Mul(s.scalar, gen)

	// Compute the share w*S + X
	ws := group.Point().Mul(s.password, sp)
	share := group.Point().Add(ws, x)

	message, err := crypto.PointToBytes(share)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal share: %w", err)
	}

	s.outbound = message
	s.state = StateStarted

	out := make([]byte, len(message))
	copy(out, message)
	return out, nil
}

// Finish consumes the peer's share and derives the session key. The inbound
// bytes are validated before any key material is derived; a share of the
// wrong length or not on the curve yields ErrMalformedShare. Finish consumes
// the engine: any second call yields ErrAlreadyFinished.
func (s *Symmetric) Finish(inbound []byte) ([]byte, error) {
	switch s.state {
	case StateInitial:
		return nil, ErrNotStarted
	case StateFinished, StateFailed:
		return nil, ErrAlreadyFinished
	}

	group := s.options.Ciphersuite.Group

	// Validate the peer's share before touching key material
	peer, err := crypto.PointFromBytes(group, inbound)
	if err != nil {
		s.state = StateFailed
		return nil, fmt.Errorf("%w: %v", ErrMalformedShare, err)
	}

	sp, err := symmetricPoint(group)
	if err != nil {
		s.state = StateFailed
		return nil, fmt.Errorf("failed to load blinding constant: %w", err)
	}

	// K = x * (peer - w*S)
	ws := group.Point().Mul(s.password, sp)
	unblinded := group.Point().Sub(peer, ws)
	k := group.Point().Mul(s.scalar, unblinded)

	kData, err := crypto.PointToBytes(k)
	if err != nil {
		s.state = StateFailed
		return nil, fmt.Errorf("failed to marshal shared element: %w", err)
	}
	wData, err := s.password.MarshalBinary()
	if err != nil {
		s.state = StateFailed
		return nil, fmt.Errorf("failed to marshal password scalar: %w", err)
	}

	tt := newTranscript(s.identity, s.outbound, inbound, kData, wData)
	key := s.deriveSessionKey(tt.Bytes())

	s.state = StateFinished

	return key, nil
}

// deriveSessionKey hashes the transcript and expands the digest to the fixed
// session-key length.
func (s *Symmetric) deriveSessionKey(transcript []byte) []byte {
	h := s.options.Ciphersuite.Hash()
	h.Write(transcript)
	digest := h.Sum(nil)

	return s.options.Ciphersuite.KDF(digest, nil, []byte(sessionKeyInfo), SessionKeySize)
}
