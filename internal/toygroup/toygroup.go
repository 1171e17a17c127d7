// Package toygroup is a deliberately insecure group for tests: the additive group Z_q with
// generator 1, so every point is its own discrete logarithm. It lets tests pin message
// points, witnesses and secrets to small known values.
package toygroup

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/davxy/w3f-bls/pkg/group"
)

// Name identifies the engine.
const Name = "toy"

// Q is the prime order of the toy group, the largest prime below 2^16.
const Q = 65521

const size = 2

var errNoMessagePoint = errors.New("toy: message maps to the identity")

// Scalar is a toy field element.
type Scalar struct {
	v uint64
}

// Value returns the scalar as an integer in [0, Q).
func (s *Scalar) Value() uint64 { return s.v }

func (s *Scalar) Bytes() []byte {
	b := make([]byte, size)
	binary.BigEndian.PutUint16(b, uint16(s.v))
	return b
}

func (s *Scalar) Equal(other group.Scalar) bool {
	o, ok := other.(*Scalar)
	return ok && s.v == o.v
}

func (s *Scalar) Zeroize() { s.v = 0 }

// Point is a toy group element; its value is its discrete log to the generator.
type Point struct {
	v uint64
}

// Value returns the discrete log of the point.
func (p *Point) Value() uint64 { return p.v }

func (p *Point) Bytes() []byte {
	b := make([]byte, size)
	binary.BigEndian.PutUint16(b, uint16(p.v))
	return b
}

func (p *Point) Equal(other group.Point) bool {
	o, ok := other.(*Point)
	return ok && p.v == o.v
}

// Engine is the toy group. Messages listed in MessagePoints map to the given discrete
// log; any other message maps to SHA-256(msg) mod Q.
type Engine struct {
	MessagePoints map[string]uint64
}

// New returns a toy engine with no pinned messages.
func New() *Engine {
	return &Engine{MessagePoints: make(map[string]uint64)}
}

// WithMessagePoint pins msg to the point dlog·G.
func (e *Engine) WithMessagePoint(msg string, dlog uint64) *Engine {
	e.MessagePoints[msg] = dlog % Q
	return e
}

// NewScalar returns v mod Q.
func NewScalar(v uint64) *Scalar { return &Scalar{v: v % Q} }

// NewPoint returns (v mod Q)·G.
func NewPoint(v uint64) *Point { return &Point{v: v % Q} }

func (e *Engine) Name() string { return Name }

func (e *Engine) Order() *big.Int { return big.NewInt(Q) }

func (e *Engine) ScalarSize() int { return size }

func (e *Engine) PointSize() int { return size }

func (e *Engine) ParseScalar(b []byte) (group.Scalar, error) {
	if len(b) != size {
		return nil, fmt.Errorf("toy: scalar length %d: %w", len(b), group.ErrInvalidScalar)
	}
	v := uint64(binary.BigEndian.Uint16(b))
	if v >= Q {
		return nil, fmt.Errorf("toy: scalar not reduced: %w", group.ErrInvalidScalar)
	}
	return &Scalar{v: v}, nil
}

func (e *Engine) ReduceScalar(b []byte) group.Scalar {
	return e.SetBigInt(new(big.Int).SetBytes(b))
}

func (e *Engine) SetBigInt(v *big.Int) group.Scalar {
	r := new(big.Int).Mod(v, big.NewInt(Q))
	return &Scalar{v: r.Uint64()}
}

func (e *Engine) BigInt(s group.Scalar) *big.Int {
	return new(big.Int).SetUint64(asScalar(s).v)
}

func (e *Engine) ScalarAdd(a, b group.Scalar) group.Scalar {
	return &Scalar{v: (asScalar(a).v + asScalar(b).v) % Q}
}

func (e *Engine) ScalarSub(a, b group.Scalar) group.Scalar {
	return &Scalar{v: (asScalar(a).v + Q - asScalar(b).v) % Q}
}

func (e *Engine) ScalarMul(a, b group.Scalar) group.Scalar {
	return &Scalar{v: (asScalar(a).v * asScalar(b).v) % Q}
}

func (e *Engine) ParsePoint(b []byte) (group.Point, error) {
	if len(b) != size {
		return nil, fmt.Errorf("toy: point length %d: %w", len(b), group.ErrInvalidPoint)
	}
	v := uint64(binary.BigEndian.Uint16(b))
	if v == 0 || v >= Q {
		return nil, fmt.Errorf("toy: identity or unreduced point: %w", group.ErrInvalidPoint)
	}
	return &Point{v: v}, nil
}

func (e *Engine) Generator() group.Point { return &Point{v: 1} }

func (e *Engine) ScalarBaseMult(k group.Scalar) group.Point {
	return &Point{v: asScalar(k).v}
}

func (e *Engine) ScalarMult(p group.Point, k group.Scalar) group.Point {
	return &Point{v: (asPoint(p).v * asScalar(k).v) % Q}
}

func (e *Engine) Add(p, q group.Point) group.Point {
	return &Point{v: (asPoint(p).v + asPoint(q).v) % Q}
}

func (e *Engine) HashToPoint(msg []byte) (group.Point, error) {
	if v, ok := e.MessagePoints[string(msg)]; ok {
		return &Point{v: v}, nil
	}
	sum := sha256.Sum256(msg)
	v := new(big.Int).Mod(new(big.Int).SetBytes(sum[:]), big.NewInt(Q)).Uint64()
	if v == 0 {
		return nil, errNoMessagePoint
	}
	return &Point{v: v}, nil
}

func asScalar(s group.Scalar) *Scalar {
	v, ok := s.(*Scalar)
	if !ok {
		panic(fmt.Errorf("toy: scalar %T: %w", s, group.ErrWrongEngine))
	}
	return v
}

func asPoint(p group.Point) *Point {
	v, ok := p.(*Point)
	if !ok {
		panic(fmt.Errorf("toy: point %T: %w", p, group.ErrWrongEngine))
	}
	return v
}
