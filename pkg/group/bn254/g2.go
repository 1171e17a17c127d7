package bn254

import (
	"fmt"

	bn "github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/davxy/w3f-bls/pkg/group"
)

// G2Name identifies the engine with signatures in G2.
const G2Name = "bn254-g2"

// G2DST is the hash-to-curve domain separation tag for messages mapped into G2.
var G2DST = []byte("BLS_SIG_BN254G2_XMD:SHA-256_SVDW_RO_POP_")

type g2Point struct {
	p bn.G2Affine
}

func (p *g2Point) Bytes() []byte {
	b := p.p.Bytes()
	return b[:]
}

func (p *g2Point) Equal(other group.Point) bool {
	o, ok := other.(*g2Point)
	return ok && p.p.Equal(&o.p)
}

func asG2(p group.Point) *g2Point {
	v, ok := p.(*g2Point)
	if !ok {
		panic(fmt.Errorf("%s: point %T: %w", G2Name, p, group.ErrWrongEngine))
	}
	return v
}

// G2Engine is the BN254 engine whose signature group is G2.
type G2Engine struct {
	field
	gen bn.G2Affine
}

// NewG2Engine returns the BN254 engine with signatures in G2.
func NewG2Engine() *G2Engine {
	_, _, _, g2 := bn.Generators()
	return &G2Engine{gen: g2}
}

func (e *G2Engine) Name() string { return G2Name }

func (e *G2Engine) PointSize() int { return bn.SizeOfG2AffineCompressed }

func (e *G2Engine) ParsePoint(b []byte) (group.Point, error) {
	if len(b) != bn.SizeOfG2AffineCompressed {
		return nil, fmt.Errorf("%s: point length %d: %w", G2Name, len(b), group.ErrInvalidPoint)
	}
	p := new(g2Point)
	if _, err := p.p.SetBytes(b); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", G2Name, err, group.ErrInvalidPoint)
	}
	if p.p.IsInfinity() || !p.p.IsInSubGroup() {
		return nil, fmt.Errorf("%s: identity or small-order point: %w", G2Name, group.ErrInvalidPoint)
	}
	return p, nil
}

func (e *G2Engine) Generator() group.Point {
	return &g2Point{p: e.gen}
}

func (e *G2Engine) ScalarBaseMult(k group.Scalar) group.Point {
	return e.ScalarMult(&g2Point{p: e.gen}, k)
}

func (e *G2Engine) ScalarMult(p group.Point, k group.Scalar) group.Point {
	kb := scalarInt(k)
	defer group.WipeInt(kb)
	r := new(g2Point)
	r.p.ScalarMultiplication(&asG2(p).p, kb)
	return r
}

func (e *G2Engine) Add(p, q group.Point) group.Point {
	var acc, other bn.G2Jac
	acc.FromAffine(&asG2(p).p)
	other.FromAffine(&asG2(q).p)
	acc.AddAssign(&other)
	r := new(g2Point)
	r.p.FromJacobian(&acc)
	return r
}

func (e *G2Engine) HashToPoint(msg []byte) (group.Point, error) {
	h, err := bn.HashToG2(msg, G2DST)
	if err != nil {
		return nil, fmt.Errorf("%s: hash to curve: %w", G2Name, err)
	}
	return &g2Point{p: h}, nil
}
