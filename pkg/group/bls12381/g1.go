package bls12381

import (
	"fmt"

	bls "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/davxy/w3f-bls/pkg/group"
)

// G1Name identifies the engine with signatures in G1.
const G1Name = "bls12-381-g1"

// G1DST is the hash-to-curve domain separation tag for messages mapped into G1.
var G1DST = []byte("BLS_SIG_BLS12381G1_XMD:SHA-256_SSWU_RO_POP_")

type g1Point struct {
	p bls.G1Affine
}

func (p *g1Point) Bytes() []byte {
	b := p.p.Bytes()
	return b[:]
}

func (p *g1Point) Equal(other group.Point) bool {
	o, ok := other.(*g1Point)
	return ok && p.p.Equal(&o.p)
}

func asG1(p group.Point) *g1Point {
	v, ok := p.(*g1Point)
	if !ok {
		panic(fmt.Errorf("%s: point %T: %w", G1Name, p, group.ErrWrongEngine))
	}
	return v
}

// G1Engine is the BLS12-381 engine whose signature group is G1.
type G1Engine struct {
	field
	gen bls.G1Affine
}

// NewG1Engine returns the BLS12-381 engine with signatures in G1.
func NewG1Engine() *G1Engine {
	_, _, g1, _ := bls.Generators()
	return &G1Engine{gen: g1}
}

func (e *G1Engine) Name() string { return G1Name }

func (e *G1Engine) PointSize() int { return bls.SizeOfG1AffineCompressed }

func (e *G1Engine) ParsePoint(b []byte) (group.Point, error) {
	if len(b) != bls.SizeOfG1AffineCompressed {
		return nil, fmt.Errorf("%s: point length %d: %w", G1Name, len(b), group.ErrInvalidPoint)
	}
	p := new(g1Point)
	if _, err := p.p.SetBytes(b); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", G1Name, err, group.ErrInvalidPoint)
	}
	if p.p.IsInfinity() || !p.p.IsInSubGroup() {
		return nil, fmt.Errorf("%s: identity or small-order point: %w", G1Name, group.ErrInvalidPoint)
	}
	return p, nil
}

func (e *G1Engine) Generator() group.Point {
	return &g1Point{p: e.gen}
}

func (e *G1Engine) ScalarBaseMult(k group.Scalar) group.Point {
	return e.ScalarMult(&g1Point{p: e.gen}, k)
}

func (e *G1Engine) ScalarMult(p group.Point, k group.Scalar) group.Point {
	kb := scalarInt(k)
	defer group.WipeInt(kb)
	r := new(g1Point)
	r.p.ScalarMultiplication(&asG1(p).p, kb)
	return r
}

func (e *G1Engine) Add(p, q group.Point) group.Point {
	var acc, other bls.G1Jac
	acc.FromAffine(&asG1(p).p)
	other.FromAffine(&asG1(q).p)
	acc.AddAssign(&other)
	r := new(g1Point)
	r.p.FromJacobian(&acc)
	return r
}

func (e *G1Engine) HashToPoint(msg []byte) (group.Point, error) {
	h, err := bls.HashToG1(msg, G1DST)
	if err != nil {
		return nil, fmt.Errorf("%s: hash to curve: %w", G1Name, err)
	}
	return &g1Point{p: h}, nil
}
