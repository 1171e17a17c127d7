package chaumpedersen

import (
	"fmt"

	"github.com/davxy/w3f-bls/pkg/group"
)

// Proof is a Chaum-Pedersen proof (c, s).
type Proof struct {
	Challenge group.Scalar
	Response  group.Scalar
}

// SignatureWithProof is a signature together with its proof of possession.
type SignatureWithProof struct {
	Signature *Signature
	Proof     *Proof
}

// ParseProof decodes c || s, each a canonical scalar of engine.
func ParseProof(engine group.Engine, b []byte) (*Proof, error) {
	n := engine.ScalarSize()
	if len(b) != 2*n {
		return nil, fmt.Errorf("proof length %d, want %d: %w", len(b), 2*n, group.ErrInvalidScalar)
	}
	c, err := engine.ParseScalar(b[:n])
	if err != nil {
		return nil, fmt.Errorf("proof challenge: %w", err)
	}
	s, err := engine.ParseScalar(b[n:])
	if err != nil {
		return nil, fmt.Errorf("proof response: %w", err)
	}
	return &Proof{Challenge: c, Response: s}, nil
}

// Bytes encodes the proof as c || s.
func (p *Proof) Bytes() []byte {
	c := p.Challenge.Bytes()
	return append(c, p.Response.Bytes()...)
}

// Equal reports whether both proofs carry the same challenge and response.
func (p *Proof) Equal(other *Proof) bool {
	return other != nil && p.Challenge.Equal(other.Challenge) && p.Response.Equal(other.Response)
}
