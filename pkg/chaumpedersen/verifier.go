package chaumpedersen

import (
	"github.com/davxy/w3f-bls/pkg/group"
)

// VerifyProof reports whether proof shows that sig and pk share a discrete log with
// respect to H(msg) and G. Any malformed or foreign input yields false.
func (s *Scheme) VerifyProof(pk *PublicKey, msg []byte, sig *Signature, proof *Proof) bool {
	if pk == nil || sig == nil || proof == nil || proof.Challenge == nil || proof.Response == nil {
		return false
	}
	if !s.owns(pk.engine) || !s.owns(sig.engine) {
		return false
	}
	c, resp, ok := s.normalizeProof(proof)
	if !ok {
		return false
	}
	m, err := s.engine.HashToPoint(msg)
	if err != nil {
		return false
	}

	cm := s.commit(resp, m, &binding{c: c, pub: pk.p, sig: sig.s})
	return s.challenge(m, pk.p, sig.s, cm).Equal(c)
}

// normalizeProof re-decodes the proof scalars through the scheme's engine so that
// scalars built by another engine are rejected instead of tripping arithmetic.
func (s *Scheme) normalizeProof(proof *Proof) (c, resp group.Scalar, ok bool) {
	c, err := s.engine.ParseScalar(proof.Challenge.Bytes())
	if err != nil {
		return nil, nil, false
	}
	resp, err = s.engine.ParseScalar(proof.Response.Bytes())
	if err != nil {
		return nil, nil, false
	}
	return c, resp, true
}
