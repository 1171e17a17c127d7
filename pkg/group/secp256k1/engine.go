// Package secp256k1 provides a group.Engine over secp256k1 using the decred implementation.
// The curve has no pairing, so it only serves the proof itself (tests, audits and
// interoperability with non-BLS deployments).
package secp256k1

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/davxy/w3f-bls/pkg/group"
)

// Name identifies the engine.
const Name = "secp256k1"

const (
	scalarSize = 32
	pointSize  = 33
)

// DST prefixes every try-and-increment hash used to map messages to the curve.
var DST = []byte("W3F-BLS-CP_SECP256K1_SHA-256_TAI_")

var errNoPoint = errors.New("secp256k1: no curve point found for message")

type scalar struct {
	s secp256k1.ModNScalar
}

func (s *scalar) Bytes() []byte {
	b := s.s.Bytes()
	return b[:]
}

func (s *scalar) Equal(other group.Scalar) bool {
	o, ok := other.(*scalar)
	return ok && s.s.Equals(&o.s)
}

func (s *scalar) Zeroize() {
	s.s.Zero()
}

// point is kept in affine form; the identity is the all-zero Jacobian point.
type point struct {
	p secp256k1.JacobianPoint
}

func (p *point) isIdentity() bool {
	return (p.p.X.IsZero() && p.p.Y.IsZero()) || p.p.Z.IsZero()
}

func (p *point) Bytes() []byte {
	if p.isIdentity() {
		return make([]byte, pointSize)
	}
	return secp256k1.NewPublicKey(&p.p.X, &p.p.Y).SerializeCompressed()
}

func (p *point) Equal(other group.Point) bool {
	o, ok := other.(*point)
	if !ok {
		return false
	}
	if p.isIdentity() || o.isIdentity() {
		return p.isIdentity() == o.isIdentity()
	}
	return p.p.X.Equals(&o.p.X) && p.p.Y.Equals(&o.p.Y)
}

func newPoint(j *secp256k1.JacobianPoint) *point {
	r := &point{p: *j}
	if !r.isIdentity() {
		r.p.ToAffine()
	}
	return r
}

func asScalar(s group.Scalar) *scalar {
	v, ok := s.(*scalar)
	if !ok {
		panic(fmt.Errorf("%s: scalar %T: %w", Name, s, group.ErrWrongEngine))
	}
	return v
}

func asPoint(p group.Point) *point {
	v, ok := p.(*point)
	if !ok {
		panic(fmt.Errorf("%s: point %T: %w", Name, p, group.ErrWrongEngine))
	}
	return v
}

// Engine is the secp256k1 group engine.
type Engine struct {
	order *big.Int
}

// NewEngine returns a secp256k1 engine.
func NewEngine() *Engine {
	return &Engine{order: new(big.Int).Set(secp256k1.S256().N)}
}

func (e *Engine) Name() string { return Name }

func (e *Engine) Order() *big.Int { return new(big.Int).Set(e.order) }

func (e *Engine) ScalarSize() int { return scalarSize }

func (e *Engine) PointSize() int { return pointSize }

func (e *Engine) ParseScalar(b []byte) (group.Scalar, error) {
	if len(b) != scalarSize {
		return nil, fmt.Errorf("%s: scalar length %d: %w", Name, len(b), group.ErrInvalidScalar)
	}
	s := new(scalar)
	if overflow := s.s.SetByteSlice(b); overflow {
		s.Zeroize()
		return nil, fmt.Errorf("%s: scalar not reduced: %w", Name, group.ErrInvalidScalar)
	}
	return s, nil
}

func (e *Engine) ReduceScalar(b []byte) group.Scalar {
	v := group.Reduce(b, e.order)
	defer group.WipeInt(v)
	return e.SetBigInt(v)
}

func (e *Engine) SetBigInt(v *big.Int) group.Scalar {
	r := new(big.Int).Mod(v, e.order)
	defer group.WipeInt(r)
	buf := group.FixedBytes(r, scalarSize)
	defer group.WipeBytes(buf)
	s := new(scalar)
	s.s.SetByteSlice(buf)
	return s
}

func (e *Engine) BigInt(s group.Scalar) *big.Int {
	b := asScalar(s).s.Bytes()
	defer group.WipeBytes(b[:])
	return new(big.Int).SetBytes(b[:])
}

func (e *Engine) ScalarAdd(a, b group.Scalar) group.Scalar {
	r := new(scalar)
	r.s.Add2(&asScalar(a).s, &asScalar(b).s)
	return r
}

func (e *Engine) ScalarSub(a, b group.Scalar) group.Scalar {
	var neg secp256k1.ModNScalar
	neg.NegateVal(&asScalar(b).s)
	r := new(scalar)
	r.s.Add2(&asScalar(a).s, &neg)
	neg.Zero()
	return r
}

func (e *Engine) ScalarMul(a, b group.Scalar) group.Scalar {
	r := new(scalar)
	r.s.Mul2(&asScalar(a).s, &asScalar(b).s)
	return r
}

func (e *Engine) ParsePoint(b []byte) (group.Point, error) {
	if len(b) != pointSize {
		return nil, fmt.Errorf("%s: point length %d: %w", Name, len(b), group.ErrInvalidPoint)
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", Name, err, group.ErrInvalidPoint)
	}
	p := new(point)
	pub.AsJacobian(&p.p)
	return p, nil
}

func (e *Engine) Generator() group.Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	var g secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&one, &g)
	return newPoint(&g)
}

func (e *Engine) ScalarBaseMult(k group.Scalar) group.Point {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&asScalar(k).s, &r)
	return newPoint(&r)
}

func (e *Engine) ScalarMult(p group.Point, k group.Scalar) group.Point {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&asScalar(k).s, &asPoint(p).p, &r)
	return newPoint(&r)
}

func (e *Engine) Add(p, q group.Point) group.Point {
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&asPoint(p).p, &asPoint(q).p, &r)
	return newPoint(&r)
}

// HashToPoint maps msg with try-and-increment: the first counter for which
// 0x02 || SHA-256(DST || counter || msg) decodes as a compressed point wins.
func (e *Engine) HashToPoint(msg []byte) (group.Point, error) {
	var ctr [4]byte
	candidate := make([]byte, pointSize)
	candidate[0] = secp256k1.PubKeyFormatCompressedEven
	for i := uint32(0); i < 256; i++ {
		binary.BigEndian.PutUint32(ctr[:], i)
		h := sha256.New()
		h.Write(DST)
		h.Write(ctr[:])
		h.Write(msg)
		copy(candidate[1:], h.Sum(nil))
		if p, err := e.ParsePoint(candidate); err == nil {
			return p, nil
		}
	}
	return nil, errNoPoint
}
