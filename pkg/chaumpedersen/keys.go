package chaumpedersen

import (
	"fmt"
	"io"

	"github.com/davxy/w3f-bls/pkg/group"
)

// SecretKey is a BLS secret scalar x with its public key x·G.
type SecretKey struct {
	engine group.Engine
	x      group.Scalar
	pub    *PublicKey
}

// PublicKey is x·G in the signature group.
type PublicKey struct {
	engine group.Engine
	p      group.Point
}

// Signature is a BLS signature x·H(m).
type Signature struct {
	engine group.Engine
	s      group.Point
}

// NewSecretKey decodes a canonical, non-zero scalar.
func NewSecretKey(engine group.Engine, b []byte) (*SecretKey, error) {
	x, err := engine.ParseScalar(b)
	if err != nil {
		return nil, fmt.Errorf("secret key: %w", err)
	}
	if engine.BigInt(x).Sign() == 0 {
		return nil, ErrZeroSecret
	}
	return newSecretKey(engine, x), nil
}

func newSecretKey(engine group.Engine, x group.Scalar) *SecretKey {
	return &SecretKey{
		engine: engine,
		x:      x,
		pub:    &PublicKey{engine: engine, p: engine.ScalarBaseMult(x)},
	}
}

// GenerateSecretKey draws a uniform non-zero scalar from rng.
func GenerateSecretKey(engine group.Engine, rng io.Reader) (*SecretKey, error) {
	// 16 extra bytes keep the modular bias negligible.
	buf := make([]byte, engine.ScalarSize()+16)
	defer group.WipeBytes(buf)
	for {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, fmt.Errorf("failed to read randomness: %w", err)
		}
		x := engine.ReduceScalar(buf)
		if engine.BigInt(x).Sign() != 0 {
			return newSecretKey(engine, x), nil
		}
	}
}

func (sk *SecretKey) Engine() group.Engine { return sk.engine }

// Bytes returns the canonical scalar encoding. The caller owns and should wipe it.
func (sk *SecretKey) Bytes() []byte { return sk.x.Bytes() }

// Scalar exposes x for group arithmetic.
func (sk *SecretKey) Scalar() group.Scalar { return sk.x }

// PublicKey returns x·G, computed once when the key is created.
func (sk *SecretKey) PublicKey() *PublicKey { return sk.pub }

// SignMessage returns the BLS signature x·H(msg).
func (sk *SecretKey) SignMessage(msg []byte) (*Signature, error) {
	m, err := sk.engine.HashToPoint(msg)
	if err != nil {
		return nil, fmt.Errorf("hash to curve: %w", err)
	}
	return &Signature{engine: sk.engine, s: sk.engine.ScalarMult(m, sk.x)}, nil
}

// Zeroize overwrites the secret scalar. The key is unusable afterwards.
func (sk *SecretKey) Zeroize() {
	sk.x.Zeroize()
}

// ParsePublicKey decodes a public key, rejecting the identity and off-subgroup points.
func ParsePublicKey(engine group.Engine, b []byte) (*PublicKey, error) {
	p, err := engine.ParsePoint(b)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	return &PublicKey{engine: engine, p: p}, nil
}

// NewPublicKey wraps an already validated point.
func NewPublicKey(engine group.Engine, p group.Point) *PublicKey {
	return &PublicKey{engine: engine, p: p}
}

func (pk *PublicKey) Engine() group.Engine { return pk.engine }

func (pk *PublicKey) Point() group.Point { return pk.p }

func (pk *PublicKey) Bytes() []byte { return pk.p.Bytes() }

func (pk *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && pk.engine.Name() == other.engine.Name() && pk.p.Equal(other.p)
}

// ParseSignature decodes a signature point.
func ParseSignature(engine group.Engine, b []byte) (*Signature, error) {
	s, err := engine.ParsePoint(b)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	return &Signature{engine: engine, s: s}, nil
}

func (sig *Signature) Engine() group.Engine { return sig.engine }

func (sig *Signature) Point() group.Point { return sig.s }

func (sig *Signature) Bytes() []byte { return sig.s.Bytes() }

func (sig *Signature) Equal(other *Signature) bool {
	return other != nil && sig.engine.Name() == other.engine.Name() && sig.s.Equal(other.s)
}
