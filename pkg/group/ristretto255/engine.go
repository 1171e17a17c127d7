// Package ristretto255 provides a group.Engine over the ristretto255 prime-order group.
package ristretto255

import (
	"crypto/sha512"
	"fmt"
	"math/big"

	r255 "github.com/gtank/ristretto255"

	"github.com/davxy/w3f-bls/pkg/group"
)

// Name identifies the engine.
const Name = "ristretto255"

const size = 32

// DST prefixes the SHA-512 input fed to the ristretto255 one-way map.
var DST = []byte("W3F-BLS-CP_RISTRETTO255_SHA-512_R255MAP_")

var order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

type scalar struct {
	s r255.Scalar
}

func (s *scalar) Bytes() []byte { return s.s.Encode(nil) }

func (s *scalar) Equal(other group.Scalar) bool {
	o, ok := other.(*scalar)
	return ok && s.s.Equal(&o.s) == 1
}

func (s *scalar) Zeroize() {
	s.s = r255.Scalar{}
}

type element struct {
	e r255.Element
}

func (p *element) Bytes() []byte { return p.e.Encode(nil) }

func (p *element) Equal(other group.Point) bool {
	o, ok := other.(*element)
	return ok && p.e.Equal(&o.e) == 1
}

func asScalar(s group.Scalar) *scalar {
	v, ok := s.(*scalar)
	if !ok {
		panic(fmt.Errorf("%s: scalar %T: %w", Name, s, group.ErrWrongEngine))
	}
	return v
}

func asElement(p group.Point) *element {
	v, ok := p.(*element)
	if !ok {
		panic(fmt.Errorf("%s: point %T: %w", Name, p, group.ErrWrongEngine))
	}
	return v
}

// Engine is the ristretto255 group engine. Scalars encode little-endian.
type Engine struct{}

// NewEngine returns a ristretto255 engine.
func NewEngine() *Engine { return &Engine{} }

func (e *Engine) Name() string { return Name }

func (e *Engine) Order() *big.Int { return new(big.Int).Set(order) }

func (e *Engine) ScalarSize() int { return size }

func (e *Engine) PointSize() int { return size }

func (e *Engine) ParseScalar(b []byte) (group.Scalar, error) {
	if len(b) != size {
		return nil, fmt.Errorf("%s: scalar length %d: %w", Name, len(b), group.ErrInvalidScalar)
	}
	s := new(scalar)
	if err := s.s.Decode(b); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", Name, err, group.ErrInvalidScalar)
	}
	return s, nil
}

func (e *Engine) ReduceScalar(b []byte) group.Scalar {
	v := group.Reduce(b, order)
	defer group.WipeInt(v)
	return e.SetBigInt(v)
}

func (e *Engine) SetBigInt(v *big.Int) group.Scalar {
	r := new(big.Int).Mod(v, order)
	defer group.WipeInt(r)
	be := group.FixedBytes(r, size)
	le := group.Reverse(be)
	defer group.WipeBytes(be)
	defer group.WipeBytes(le)
	s := new(scalar)
	if err := s.s.Decode(le); err != nil {
		panic(err)
	}
	return s
}

func (e *Engine) BigInt(s group.Scalar) *big.Int {
	be := group.Reverse(asScalar(s).s.Encode(nil))
	defer group.WipeBytes(be)
	return new(big.Int).SetBytes(be)
}

func (e *Engine) ScalarAdd(a, b group.Scalar) group.Scalar {
	r := new(scalar)
	r.s.Add(&asScalar(a).s, &asScalar(b).s)
	return r
}

func (e *Engine) ScalarSub(a, b group.Scalar) group.Scalar {
	r := new(scalar)
	r.s.Subtract(&asScalar(a).s, &asScalar(b).s)
	return r
}

func (e *Engine) ScalarMul(a, b group.Scalar) group.Scalar {
	r := new(scalar)
	r.s.Multiply(&asScalar(a).s, &asScalar(b).s)
	return r
}

func (e *Engine) ParsePoint(b []byte) (group.Point, error) {
	if len(b) != size {
		return nil, fmt.Errorf("%s: point length %d: %w", Name, len(b), group.ErrInvalidPoint)
	}
	p := new(element)
	if err := p.e.Decode(b); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", Name, err, group.ErrInvalidPoint)
	}
	if p.e.Equal(r255.NewElement()) == 1 {
		return nil, fmt.Errorf("%s: identity: %w", Name, group.ErrInvalidPoint)
	}
	return p, nil
}

func (e *Engine) Generator() group.Point {
	p := new(element)
	p.e.Base()
	return p
}

func (e *Engine) ScalarBaseMult(k group.Scalar) group.Point {
	r := new(element)
	r.e.ScalarBaseMult(&asScalar(k).s)
	return r
}

func (e *Engine) ScalarMult(p group.Point, k group.Scalar) group.Point {
	r := new(element)
	r.e.ScalarMult(&asScalar(k).s, &asElement(p).e)
	return r
}

func (e *Engine) Add(p, q group.Point) group.Point {
	r := new(element)
	r.e.Add(&asElement(p).e, &asElement(q).e)
	return r
}

// HashToPoint applies the ristretto255 one-way map to SHA-512(DST || msg).
func (e *Engine) HashToPoint(msg []byte) (group.Point, error) {
	h := sha512.New()
	h.Write(DST)
	h.Write(msg)
	p := new(element)
	p.e.FromUniformBytes(h.Sum(nil))
	return p, nil
}
