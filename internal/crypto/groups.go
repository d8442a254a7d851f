package crypto

import (
	"crypto/elliptic"
	"fmt"
	"math/big"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/group/nist"
	"go.dedis.ch/kyber/v4/util/random"
)

// Group bundles the elliptic-curve operations the exchange needs: scalar and
// point construction, random blinding scalars, and fixed serialized sizes.
type Group interface {
	String() string
	Curve() elliptic.Curve

	ScalarLen() int
	Scalar() kyber.Scalar
	RandomScalar() kyber.Scalar

	ElementLen() int
	Point() kyber.Point
	Generator() (kyber.Point, error)

	Order() *big.Int
}

type p256Group struct {
	group kyber.Group
	curve elliptic.Curve
}

// P256Group returns the NIST P-256 group.
func P256Group() Group {
	return &p256Group{
		group: nist.NewBlakeSHA256P256(),
		curve: elliptic.P256(),
	}
}

func (c *p256Group) String() string {
	return c.group.String()
}

func (c *p256Group) Curve() elliptic.Curve {
	return c.curve
}

func (c *p256Group) ScalarLen() int {
	return c.group.ScalarLen()
}

func (c *p256Group) Scalar() kyber.Scalar {
	return c.group.Scalar()
}

func (c *p256Group) RandomScalar() kyber.Scalar {
	return c.group.Scalar().Pick(random.New())
}

// ElementLen is the length of a serialized group element. Elements use the
// uncompressed X9.62 encoding, 65 bytes for P-256.
func (c *p256Group) ElementLen() int {
	return c.group.PointLen()
}

func (c *p256Group) Point() kyber.Point {
	return c.group.Point()
}

func (c *p256Group) Generator() (kyber.Point, error) {
	return pointFromCoordinates(c, c.curve.Params().Gx, c.curve.Params().Gy)
}

func (c *p256Group) Order() *big.Int {
	return c.curve.Params().N
}

func pointFromCoordinates(g Group, x, y *big.Int) (kyber.Point, error) {
	//lint:ignore SA1019 deprecated function used for compatibility
	b := elliptic.Marshal(g.Curve(), x, y)
	p := g.Point()
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return p, nil
}

// PointToBytes serializes a group element to its fixed-length encoding.
func PointToBytes(p kyber.Point) ([]byte, error) {
	return p.MarshalBinary()
}

// PointFromBytes parses a serialized group element, rejecting input of the
// wrong length or not on the curve.
func PointFromBytes(g Group, b []byte) (kyber.Point, error) {
	if len(b) != g.ElementLen() {
		return nil, fmt.Errorf("element must be %d bytes, got %d", g.ElementLen(), len(b))
	}
	p := g.Point()
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseCompressedPoint parses a group element in compressed X9.62 form. Used
// for the fixed protocol constants, which are published compressed.
func ParseCompressedPoint(g Group, compressed []byte) (kyber.Point, error) {
	x, y := elliptic.UnmarshalCompressed(g.Curve(), compressed)
	if x == nil {
		return nil, fmt.Errorf("invalid compressed point encoding")
	}
	return pointFromCoordinates(g, x, y)
}
