// Package group defines the prime-order group interface the proof of possession is built
// on. An Engine exposes the signature group of a (usually pairing-friendly) curve together
// with its scalar field; concrete engines live in the subpackages.
package group

import (
	"errors"
	"math/big"
)

var (
	// ErrInvalidScalar indicates a scalar encoding that is not canonical for the field.
	ErrInvalidScalar = errors.New("group: invalid scalar encoding")

	// ErrInvalidPoint indicates a point encoding that is off-curve, outside the
	// prime-order subgroup, or the identity.
	ErrInvalidPoint = errors.New("group: invalid point encoding")

	// ErrWrongEngine indicates a value that belongs to a different engine.
	ErrWrongEngine = errors.New("group: value belongs to another engine")
)

// Scalar is an element of the scalar field of an engine.
type Scalar interface {
	// Bytes returns the canonical fixed-width encoding of the scalar.
	Bytes() []byte
	// Equal reports whether both scalars hold the same field element.
	Equal(other Scalar) bool
	// Zeroize overwrites the scalar in place with zero.
	Zeroize()
}

// Point is an element of the signature group of an engine.
type Point interface {
	// Bytes returns the canonical (compressed) encoding of the point.
	Bytes() []byte
	// Equal reports whether both points are the same group element.
	Equal(other Point) bool
}

// Engine abstracts the signature group and scalar field of a curve.
//
// Arithmetic methods never fail: passing a Scalar or Point created by another engine is a
// programming error and panics. Everything coming from the outside goes through
// ParseScalar and ParsePoint, which validate and return errors instead.
type Engine interface {
	// Name returns the engine identifier, e.g. "bls12-381-g1".
	Name() string

	// Order returns the prime order r of the group and its scalar field.
	Order() *big.Int

	// ScalarSize is the length of the canonical scalar encoding.
	ScalarSize() int

	// PointSize is the length of the canonical point encoding.
	PointSize() int

	// ParseScalar decodes a canonical scalar encoding.
	ParseScalar(b []byte) (Scalar, error)

	// ReduceScalar interprets b as a big-endian unsigned integer and reduces it modulo
	// the field order.
	ReduceScalar(b []byte) Scalar

	// SetBigInt returns v mod r as a scalar.
	SetBigInt(v *big.Int) Scalar

	// BigInt returns the scalar as an integer in [0, r).
	BigInt(s Scalar) *big.Int

	ScalarAdd(a, b Scalar) Scalar
	ScalarSub(a, b Scalar) Scalar
	ScalarMul(a, b Scalar) Scalar

	// ParsePoint decodes a canonical point encoding. The identity is rejected.
	ParsePoint(b []byte) (Point, error)

	// Generator returns the fixed generator G of the signature group.
	Generator() Point

	// ScalarBaseMult returns k·G.
	ScalarBaseMult(k Scalar) Point

	// ScalarMult returns k·p.
	ScalarMult(p Point, k Scalar) Point

	// Add returns p + q.
	Add(p, q Point) Point

	// HashToPoint maps a message to the signature group.
	HashToPoint(msg []byte) (Point, error)
}

// Reduce interprets b as a big-endian unsigned integer and returns it modulo order. The
// intermediate integer is wiped before returning.
func Reduce(b []byte, order *big.Int) *big.Int {
	v := new(big.Int).SetBytes(b)
	r := new(big.Int).Mod(v, order)
	WipeInt(v)
	return r
}

// WipeInt overwrites the words backing v and sets it to zero.
func WipeInt(v *big.Int) {
	if v == nil {
		return
	}
	words := v.Bits()
	for i := range words {
		words[i] = 0
	}
	v.SetInt64(0)
}

// WipeBytes overwrites b with zeros.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// FixedBytes returns v as a big-endian byte string of exactly size bytes.
func FixedBytes(v *big.Int, size int) []byte {
	out := make([]byte, size)
	v.FillBytes(out)
	return out
}

// Reverse returns a reversed copy of b, for engines with little-endian scalars.
func Reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
