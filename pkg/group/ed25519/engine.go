// Package ed25519 provides a group.Engine over the prime-order subgroup of edwards25519.
//
// Points are accepted only when they lie in the prime-order subgroup; the check multiplies
// by 8⁻¹ mod ℓ and then by the cofactor, which returns the original point exactly when its
// torsion component is zero.
package ed25519

import (
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"filippo.io/edwards25519"

	"github.com/davxy/w3f-bls/pkg/group"
)

// Name identifies the engine.
const Name = "edwards25519"

const size = 32

// DST prefixes every try-and-increment hash used to map messages to the curve.
var DST = []byte("W3F-BLS-CP_EDWARDS25519_SHA-512_TAI_")

var (
	// ℓ = 2^252 + 27742317777372353535851937790883648493
	order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

	invCofactor = mustScalar(new(big.Int).ModInverse(big.NewInt(8), order))

	errNoPoint = errors.New("edwards25519: no curve point found for message")
)

func mustScalar(v *big.Int) *edwards25519.Scalar {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(group.Reverse(group.FixedBytes(v, size)))
	if err != nil {
		panic(err)
	}
	return s
}

type scalar struct {
	s edwards25519.Scalar
}

func (s *scalar) Bytes() []byte { return s.s.Bytes() }

func (s *scalar) Equal(other group.Scalar) bool {
	o, ok := other.(*scalar)
	return ok && s.s.Equal(&o.s) == 1
}

func (s *scalar) Zeroize() {
	s.s.Set(edwards25519.NewScalar())
}

type point struct {
	p edwards25519.Point
}

func (p *point) Bytes() []byte { return p.p.Bytes() }

func (p *point) Equal(other group.Point) bool {
	o, ok := other.(*point)
	return ok && p.p.Equal(&o.p) == 1
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

// Engine is the edwards25519 group engine. Scalars encode little-endian, as in RFC 8032.
type Engine struct{}

// NewEngine returns an edwards25519 engine.
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
	if _, err := s.s.SetCanonicalBytes(b); err != nil {
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
	if _, err := s.s.SetCanonicalBytes(le); err != nil {
		panic(err)
	}
	return s
}

func (e *Engine) BigInt(s group.Scalar) *big.Int {
	be := group.Reverse(asScalar(s).s.Bytes())
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
	p := new(point)
	if _, err := p.p.SetBytes(b); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", Name, err, group.ErrInvalidPoint)
	}
	if p.p.Equal(edwards25519.NewIdentityPoint()) == 1 || !inPrimeSubgroup(&p.p) {
		return nil, fmt.Errorf("%s: identity or torsion point: %w", Name, group.ErrInvalidPoint)
	}
	return p, nil
}

func inPrimeSubgroup(p *edwards25519.Point) bool {
	q := new(edwards25519.Point).ScalarMult(invCofactor, p)
	q.MultByCofactor(q)
	return q.Equal(p) == 1
}

func (e *Engine) Generator() group.Point {
	p := new(point)
	p.p.Set(edwards25519.NewGeneratorPoint())
	return p
}

func (e *Engine) ScalarBaseMult(k group.Scalar) group.Point {
	r := new(point)
	r.p.ScalarBaseMult(&asScalar(k).s)
	return r
}

func (e *Engine) ScalarMult(p group.Point, k group.Scalar) group.Point {
	r := new(point)
	r.p.ScalarMult(&asScalar(k).s, &asPoint(p).p)
	return r
}

func (e *Engine) Add(p, q group.Point) group.Point {
	r := new(point)
	r.p.Add(&asPoint(p).p, &asPoint(q).p)
	return r
}

// HashToPoint decodes SHA-512(DST || counter || msg)[:32] for increasing counters and
// clears the cofactor of the first valid encoding.
func (e *Engine) HashToPoint(msg []byte) (group.Point, error) {
	var ctr [4]byte
	identity := edwards25519.NewIdentityPoint()
	for i := uint32(0); i < 256; i++ {
		binary.BigEndian.PutUint32(ctr[:], i)
		h := sha512.New()
		h.Write(DST)
		h.Write(ctr[:])
		h.Write(msg)
		sum := h.Sum(nil)

		p := new(point)
		if _, err := p.p.SetBytes(sum[:size]); err != nil {
			continue
		}
		p.p.MultByCofactor(&p.p)
		if p.p.Equal(identity) == 1 {
			continue
		}
		return p, nil
	}
	return nil, errNoPoint
}
