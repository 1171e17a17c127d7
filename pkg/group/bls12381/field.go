// Package bls12381 provides group.Engine implementations over the BLS12-381 pairing
// curve, backed by gnark-crypto.
//
// Two layouts are supported, matching the two ways BLS keys are usually split between the
// source groups of the pairing:
//
//   - G1Engine: signatures in G1, public keys in G2 (the "tiny" layout).
//   - G2Engine: signatures in G2, public keys in G1 (the usual layout).
//
// Only the signature group is exposed; the proof of possession works on the public key
// represented in that group.
package bls12381

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/davxy/w3f-bls/pkg/group"
)

type scalar struct {
	e fr.Element
}

func (s *scalar) Bytes() []byte {
	b := s.e.Bytes()
	return b[:]
}

func (s *scalar) Equal(other group.Scalar) bool {
	o, ok := other.(*scalar)
	return ok && s.e.Equal(&o.e)
}

func (s *scalar) Zeroize() {
	s.e.SetZero()
}

func asScalar(s group.Scalar) *scalar {
	v, ok := s.(*scalar)
	if !ok {
		panic(fmt.Errorf("bls12-381: scalar %T: %w", s, group.ErrWrongEngine))
	}
	return v
}

// field implements the scalar half of group.Engine; both layouts share Fr.
type field struct{}

func (field) Order() *big.Int { return fr.Modulus() }

func (field) ScalarSize() int { return fr.Bytes }

func (f field) ParseScalar(b []byte) (group.Scalar, error) {
	if len(b) != fr.Bytes {
		return nil, fmt.Errorf("bls12-381: scalar length %d: %w", len(b), group.ErrInvalidScalar)
	}
	v := new(big.Int).SetBytes(b)
	defer group.WipeInt(v)
	if v.Cmp(fr.Modulus()) >= 0 {
		return nil, fmt.Errorf("bls12-381: scalar not reduced: %w", group.ErrInvalidScalar)
	}
	s := new(scalar)
	s.e.SetBigInt(v)
	return s, nil
}

func (f field) ReduceScalar(b []byte) group.Scalar {
	v := group.Reduce(b, fr.Modulus())
	defer group.WipeInt(v)
	return f.SetBigInt(v)
}

func (field) SetBigInt(v *big.Int) group.Scalar {
	s := new(scalar)
	s.e.SetBigInt(v)
	return s
}

func (field) BigInt(s group.Scalar) *big.Int {
	return asScalar(s).e.BigInt(new(big.Int))
}

func (field) ScalarAdd(a, b group.Scalar) group.Scalar {
	r := new(scalar)
	r.e.Add(&asScalar(a).e, &asScalar(b).e)
	return r
}

func (field) ScalarSub(a, b group.Scalar) group.Scalar {
	r := new(scalar)
	r.e.Sub(&asScalar(a).e, &asScalar(b).e)
	return r
}

func (field) ScalarMul(a, b group.Scalar) group.Scalar {
	r := new(scalar)
	r.e.Mul(&asScalar(a).e, &asScalar(b).e)
	return r
}

// scalarInt converts k for gnark's big.Int scalar multiplication. The caller wipes it.
func scalarInt(k group.Scalar) *big.Int {
	return asScalar(k).e.BigInt(new(big.Int))
}
