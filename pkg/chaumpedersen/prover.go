package chaumpedersen

import (
	"fmt"

	"github.com/davxy/w3f-bls/pkg/group"
)

// GenerateProof proves that sig and sk.PublicKey() share the discrete log x.
// The proof is deterministic in (sk, msg). It fails with ErrSignatureMismatch unless
// sig == x·H(msg): proving the same message under two different signatures would reuse
// the witness and leak x.
func (s *Scheme) GenerateProof(sk *SecretKey, msg []byte, sig *Signature) (*Proof, error) {
	if sk == nil || sig == nil {
		return nil, fmt.Errorf("nil secret key or signature")
	}
	if !s.owns(sk.engine) || !s.owns(sig.engine) {
		return nil, ErrEngineMismatch
	}
	m, err := s.engine.HashToPoint(msg)
	if err != nil {
		return nil, fmt.Errorf("hash to curve: %w", err)
	}
	if !s.engine.ScalarMult(m, sk.x).Equal(sig.s) {
		return nil, ErrSignatureMismatch
	}

	w := s.deriveWitness(sk, msg)
	defer w.wipe()
	return s.prove(sk, sk.pub.p, m, sig.s, w), nil
}

// prove runs the commit, challenge and response steps for a given witness.
func (s *Scheme) prove(sk *SecretKey, pub, m, sig group.Point, w *witness) *Proof {
	e := s.engine

	cm := s.commit(w.k, m, nil)
	c := s.challenge(m, pub, sig, cm)

	cx := e.ScalarMul(c, sk.x)
	defer cx.Zeroize()
	resp := e.ScalarSub(w.k, cx)

	if s.witnessObserver != nil {
		s.witnessObserver(w.k)
	}
	return &Proof{Challenge: c, Response: resp}
}
